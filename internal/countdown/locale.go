package countdown

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is the card's source language.
const DefaultLocale = "ru"

var ErrUnknownLocale = errors.New("countdown: unknown locale")

// Unit names a countdown component.
type Unit string

const (
	Days    Unit = "days"
	Hours   Unit = "hours"
	Minutes Unit = "minutes"
	Seconds Unit = "seconds"
)

var units = []Unit{Days, Hours, Minutes, Seconds}

// Message keys every catalog must define.
const (
	MsgTitle         = "title"
	MsgCelebration   = "celebration"
	MsgCompatWarning = "compat_warning"
)

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Units    map[Unit][]string `yaml:"units"`
	Messages map[string]string `yaml:"messages"`
}

// Locale holds the word forms and messages of one language.
type Locale struct {
	Tag      language.Tag
	Units    map[Unit]Forms
	Messages map[string]string
	slavic   bool
}

// Catalog is the set of locales loaded from YAML files.
type Catalog struct {
	locales map[language.Tag]*Locale
	tags    []language.Tag
	matcher language.Matcher
}

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS loads every locales/*.yaml file of fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	c := &Catalog{locales: map[language.Tag]*Locale{}}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", path, err)
		}
		loc, err := parseLocale(data)
		if err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", path, err)
		}
		if _, dup := c.locales[loc.Tag]; dup {
			return nil, fmt.Errorf("locale %s defined twice", loc.Tag)
		}
		c.locales[loc.Tag] = loc
		c.tags = append(c.tags, loc.Tag)
	}

	base := language.Make(DefaultLocale)
	if _, ok := c.locales[base]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", DefaultLocale)
	}
	// the matcher falls back to its first tag
	sort.SliceStable(c.tags, func(i, j int) bool { return c.tags[i] == base && c.tags[j] != base })
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func parseLocale(data []byte) (*Locale, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(file.Locale)
	if name == "" {
		return nil, fmt.Errorf("locale is required")
	}
	tag, err := language.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", name, err)
	}

	loc := &Locale{
		Tag:      tag,
		Units:    make(map[Unit]Forms, len(units)),
		Messages: file.Messages,
	}
	for _, u := range units {
		words := file.Units[u]
		if len(words) != 3 {
			return nil, fmt.Errorf("unit %s needs one/few/many forms, got %d", u, len(words))
		}
		loc.Units[u] = Forms{words[0], words[1], words[2]}
	}
	for _, key := range []string{MsgTitle, MsgCelebration, MsgCompatWarning} {
		if strings.TrimSpace(loc.Messages[key]) == "" {
			return nil, fmt.Errorf("message %s is required", key)
		}
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ru", "uk", "be":
		loc.slavic = true
	}
	return loc, nil
}

// Lookup matches a BCP 47 preference such as "ru-RU" or "en_GB" to a loaded locale.
func (c *Catalog) Lookup(pref string) (*Locale, error) {
	tag, err := language.Parse(strings.ReplaceAll(pref, "_", "-"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, pref)
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, pref)
	}
	return c.locales[c.tags[idx]], nil
}

// Default returns the base locale.
func (c *Catalog) Default() *Locale {
	return c.locales[language.Make(DefaultLocale)]
}

// Tags lists the loaded locales, base first.
func (c *Catalog) Tags() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// FormOf picks the word form for n. East Slavic locales use FormFor; the
// rest map their CLDR cardinal category onto one/few/many.
func (l *Locale) FormOf(n int) Form {
	if l.slavic {
		return FormFor(n)
	}
	if n < 0 {
		n = -n
	}
	switch plural.Cardinal.MatchPlural(l.Tag, n, 0, 0, 0, 0) {
	case plural.One:
		return FormOne
	case plural.Two, plural.Few:
		return FormFew
	}
	return FormMany
}

// Word returns the unit word that agrees with n.
func (l *Locale) Word(n int, u Unit) string {
	return l.Units[u].For(l.FormOf(n))
}

func (l *Locale) Message(key string) string { return l.Messages[key] }

// Format renders r as "1 день, 2 часа, 5 минут, 21 секунда".
func (l *Locale) Format(r Remaining) string {
	return fmt.Sprintf("%d %s, %d %s, %d %s, %d %s",
		r.Days, l.Word(r.Days, Days),
		r.Hours, l.Word(r.Hours, Hours),
		r.Minutes, l.Word(r.Minutes, Minutes),
		r.Seconds, l.Word(r.Seconds, Seconds),
	)
}
