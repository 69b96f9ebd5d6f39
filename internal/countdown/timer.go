package countdown

import "time"

// Display is what the page shows for the countdown.
type Display struct {
	Text               string
	TimerVisible       bool
	CelebrationVisible bool
}

// Timer renders the countdown once per tick until the target is reached,
// then switches to the celebration for good.
type Timer struct {
	target  time.Time
	locale  *Locale
	expired bool
	display Display

	// OnExpire runs once, on the tick that reaches the target.
	OnExpire func()
}

func NewTimer(target time.Time, locale *Locale) *Timer {
	return &Timer{
		target:  target,
		locale:  locale,
		display: Display{TimerVisible: true},
	}
}

// Tick updates the display for now and reports whether another tick should
// be scheduled.
func (t *Timer) Tick(now time.Time) bool {
	if t.expired {
		return false
	}
	if !now.Before(t.target) {
		t.expired = true
		t.display = Display{
			Text:               t.locale.Message(MsgCelebration),
			TimerVisible:       false,
			CelebrationVisible: true,
		}
		if t.OnExpire != nil {
			t.OnExpire()
		}
		return false
	}
	t.display.Text = t.locale.Format(Until(now, t.target))
	return true
}

func (t *Timer) Display() Display  { return t.display }
func (t *Timer) Expired() bool     { return t.expired }
func (t *Timer) Target() time.Time { return t.target }
func (t *Timer) Locale() *Locale   { return t.locale }
