package countdown

// Form is one of the three numeral word forms.
type Form int

const (
	FormOne Form = iota
	FormFew
	FormMany
)

func (f Form) String() string {
	switch f {
	case FormOne:
		return "one"
	case FormFew:
		return "few"
	}
	return "many"
}

// Forms holds the word for each Form, in one/few/many order.
type Forms [3]string

func (w Forms) For(f Form) string { return w[f] }

// FormFor picks the form by the last two digits: 11..19 take many, a last
// digit of 1 takes one, 2..4 take few, everything else many.
func FormFor(n int) Form {
	if n < 0 {
		n = -n
	}
	mod10, mod100 := n%10, n%100
	switch {
	case mod100 >= 11 && mod100 <= 19:
		return FormMany
	case mod10 == 1:
		return FormOne
	case mod10 >= 2 && mod10 <= 4:
		return FormFew
	}
	return FormMany
}

// Decline returns the word that agrees with n.
func Decline(n int, words Forms) string {
	return words.For(FormFor(n))
}
