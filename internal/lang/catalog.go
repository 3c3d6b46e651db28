package lang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// FileName is the per-locale override file inside <dir>/<locale>/.
const FileName = "HeliUtils.json"

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// Catalog renders reply messages for a player's language. English is always
// present; other locales start as a copy of English and overlay their overrides.
type Catalog struct {
	mu       sync.RWMutex
	builder  *catalog.Builder
	tags     []language.Tag
	matcher  language.Matcher
	printers map[language.Tag]*message.Printer
}

// New returns a catalog holding the built-in English templates.
func New() (*Catalog, error) {
	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(language.English)),
		printers: map[language.Tag]*message.Printer{},
	}
	if err := c.Add(language.English, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// Add registers a locale. Keys not present in overrides keep the English text.
// Override keys are matched case-insensitively against MessageID names; unknown
// keys are ignored.
func (c *Catalog) Add(tag language.Tag, overrides map[string]string) error {
	byKey := make(map[string]string, len(overrides))
	for k, v := range overrides {
		byKey[strings.ToLower(strings.TrimSpace(k))] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range MessageIDs() {
		tmpl := english[id]
		if v, ok := byKey[strings.ToLower(id.Key())]; ok && v != "" {
			tmpl = v
		}
		if err := c.builder.SetString(tag, id.Key(), toFormat(tmpl)); err != nil {
			return fmt.Errorf("registering %s for %s: %w", id.Key(), tag, err)
		}
	}

	known := false
	for _, t := range c.tags {
		if t == tag {
			known = true
			break
		}
	}
	if !known {
		c.tags = append(c.tags, tag)
	}
	c.matcher = language.NewMatcher(c.tags)
	c.printers = map[language.Tag]*message.Printer{}
	return nil
}

// LoadDir reads <dir>/<locale>/HeliUtils.json for every locale directory.
// A missing dir is not an error. Every bad locale is reported; the good ones
// are still registered.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading lang dir %s: %w", dir, err)
	}

	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		tag, err := language.Parse(e.Name())
		if err != nil {
			errs = append(errs, fmt.Errorf("lang dir %s: %w", e.Name(), err))
			continue
		}
		path := filepath.Join(dir, e.Name(), FileName)
		overrides, err := readOverrides(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		if err := c.Add(tag, overrides); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Locales returns the registered locales, English first.
func (c *Catalog) Locales() []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]language.Tag(nil), c.tags...)
}

// Format renders id for locale with positional args. Unknown or empty locales
// resolve to English.
func (c *Catalog) Format(locale string, id MessageID, args ...string) string {
	p := c.printer(locale)
	a := make([]any, len(args))
	for i, s := range args {
		a[i] = s
	}
	return p.Sprintf(id.Key(), a...)
}

func (c *Catalog) printer(locale string) *message.Printer {
	c.mu.RLock()
	tag := c.tags[0]
	if locale != "" {
		if want, err := language.Parse(locale); err == nil {
			_, idx, conf := c.matcher.Match(want)
			if conf != language.No {
				tag = c.tags[idx]
			}
		}
	}
	p, ok := c.printers[tag]
	c.mu.RUnlock()
	if ok {
		return p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.printers[tag]; ok {
		return p
	}
	p = message.NewPrinter(tag, message.Catalog(c.builder))
	c.printers[tag] = p
	return p
}

func readOverrides(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	out := map[string]string{}
	for _, k := range v.AllKeys() {
		out[k] = v.GetString(k)
	}
	return out, nil
}

// toFormat turns {0}-style placeholders into printf positional verbs and
// escapes literal percent signs.
func toFormat(tmpl string) string {
	tmpl = strings.ReplaceAll(tmpl, "%", "%%")
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		n, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil {
			return m
		}
		return "%[" + strconv.Itoa(n+1) + "]s"
	})
}
