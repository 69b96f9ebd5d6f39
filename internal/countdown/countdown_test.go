package countdown

import (
	"errors"
	"testing/fstest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

var _ = Describe("Until", func() {
	target := time.Date(2027, time.January, 1, 0, 0, 0, 0, Ulyanovsk)

	It("splits the difference into whole units", func() {
		now := target.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second + 999*time.Millisecond))
		Expect(Until(now, target)).To(Equal(Remaining{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}))
	})

	It("is zero at the target", func() {
		Expect(Until(target, target)).To(Equal(Remaining{}))
	})

	It("floors partial seconds", func() {
		Expect(Until(target.Add(-1500*time.Millisecond), target)).To(Equal(Remaining{Seconds: 1}))
	})
})

var _ = Describe("NextNewYear", func() {
	It("picks the coming 1 January in UTC+4", func() {
		now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
		Expect(NextNewYear(now, nil)).To(Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, Ulyanovsk)))
	})

	It("uses the local calendar of the zone", func() {
		// 21:00 UTC on 31 Dec is already 1 Jan in UTC+4
		now := time.Date(2026, time.December, 31, 21, 0, 0, 0, time.UTC)
		Expect(NextNewYear(now, Ulyanovsk).Year()).To(Equal(2028))
	})
})

var _ = Describe("Catalog", func() {
	var catalog *Catalog

	BeforeEach(func() {
		var err error
		catalog, err = LoadEmbedded()
		Expect(err).NotTo(HaveOccurred())
	})

	It("puts the base locale first", func() {
		Expect(catalog.Tags()[0]).To(Equal(language.Make("ru")))
		Expect(catalog.Default().Tag).To(Equal(language.Make("ru")))
	})

	It("matches regional preferences", func() {
		ru, err := catalog.Lookup("ru_RU")
		Expect(err).NotTo(HaveOccurred())
		Expect(ru.Word(21, Days)).To(Equal("день"))

		en, err := catalog.Lookup("en-GB")
		Expect(err).NotTo(HaveOccurred())
		Expect(en.Word(1, Hours)).To(Equal("hour"))
		Expect(en.Word(2, Hours)).To(Equal("hours"))
		Expect(en.Word(21, Hours)).To(Equal("hours"))
	})

	It("rejects garbage preferences", func() {
		_, err := catalog.Lookup("!!")
		Expect(errors.Is(err, ErrUnknownLocale)).To(BeTrue())
	})

	It("agrees with CLDR Russian cardinal rules", func() {
		ru := language.Make("ru")
		for n := 0; n < 1000; n++ {
			var want Form
			switch plural.Cardinal.MatchPlural(ru, n, 0, 0, 0, 0) {
			case plural.One:
				want = FormOne
			case plural.Few:
				want = FormFew
			default:
				want = FormMany
			}
			Expect(FormFor(n)).To(Equal(want), "n=%d", n)
		}
	})

	It("formats a full countdown line", func() {
		line := catalog.Default().Format(Remaining{Days: 1, Hours: 2, Minutes: 5, Seconds: 21})
		Expect(line).To(Equal("1 день, 2 часа, 5 минут, 21 секунда"))
	})

	It("validates catalog files", func() {
		fsys := fstest.MapFS{
			"locales/ru.yaml": {Data: []byte("locale: ru\nunits:\n  days: [a, b]\n")},
		}
		_, err := LoadFromFS(fsys)
		Expect(err).To(MatchError(ContainSubstring("needs one/few/many forms")))

		_, err = LoadFromFS(fstest.MapFS{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Timer", func() {
	var (
		catalog *Catalog
		target  time.Time
		timer   *Timer
		fired   int
	)

	BeforeEach(func() {
		var err error
		catalog, err = LoadEmbedded()
		Expect(err).NotTo(HaveOccurred())
		target = time.Date(2027, time.January, 1, 0, 0, 0, 0, Ulyanovsk)
		timer = NewTimer(target, catalog.Default())
		fired = 0
		timer.OnExpire = func() { fired++ }
	})

	It("starts with the timer shown and the celebration hidden", func() {
		d := timer.Display()
		Expect(d.TimerVisible).To(BeTrue())
		Expect(d.CelebrationVisible).To(BeFalse())
	})

	It("renders the remaining time and asks to be rescheduled", func() {
		Expect(timer.Tick(target.Add(-61 * time.Second))).To(BeTrue())
		Expect(timer.Display().Text).To(Equal("0 дней, 0 часов, 1 минута, 1 секунда"))
		Expect(timer.Expired()).To(BeFalse())
	})

	It("flips to the celebration exactly once at the target instant", func() {
		Expect(timer.Tick(target.Add(-time.Second))).To(BeTrue())
		Expect(timer.Tick(target)).To(BeFalse())

		d := timer.Display()
		Expect(d.TimerVisible).To(BeFalse())
		Expect(d.CelebrationVisible).To(BeTrue())
		Expect(d.Text).To(Equal("С Новым годом!"))
		Expect(fired).To(Equal(1))

		for i := 0; i < 5; i++ {
			Expect(timer.Tick(target.Add(time.Duration(i) * time.Second))).To(BeFalse())
		}
		// even a clock jumping backwards cannot revive it
		Expect(timer.Tick(target.Add(-time.Hour))).To(BeFalse())
		Expect(timer.Display().CelebrationVisible).To(BeTrue())
		Expect(fired).To(Equal(1))
	})
})
