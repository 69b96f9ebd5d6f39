// Package countdown computes the time left until the New Year and renders it
// with numeral-correct word forms.
//
//   - [Until]: whole days, hours, minutes and seconds to a target instant
//   - [FormFor]: picks the one/few/many form from a numeral's last two digits
//   - [Catalog]: embedded per-locale word forms and messages
//   - [Timer]: the once-per-second display that flips to a celebration exactly once
package countdown
