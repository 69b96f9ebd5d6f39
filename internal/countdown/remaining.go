package countdown

import (
	"math"
	"time"
)

// Remaining is the whole time left, split into calendar-free units.
type Remaining struct {
	Days, Hours, Minutes, Seconds int
}

const (
	msPerSecond = 1000.0
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Until floors the millisecond difference into each unit.
func Until(now, target time.Time) Remaining {
	diff := float64(target.Sub(now).Milliseconds())
	return Remaining{
		Days:    int(math.Floor(diff / msPerDay)),
		Hours:   int(math.Floor(math.Mod(diff/msPerHour, 24))),
		Minutes: int(math.Floor(math.Mod(diff/msPerMinute, 60))),
		Seconds: int(math.Floor(math.Mod(diff/msPerSecond, 60))),
	}
}

// Ulyanovsk is the fixed UTC+04:00 zone the card counts down in.
var Ulyanovsk = time.FixedZone("Europe/Ulyanovsk", 4*60*60)

// NextNewYear is midnight of the next 1 January in loc, strictly after now.
func NextNewYear(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = Ulyanovsk
	}
	local := now.In(loc)
	return time.Date(local.Year()+1, time.January, 1, 0, 0, 0, 0, loc)
}
