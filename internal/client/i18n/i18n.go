// Package i18n holds the bundled string tables of the dialog.
//
// Tables are TOML files with one section per group (validation, message,
// box_title, button, markdown_2factor). Keys are addressed as
// "section.key". A table that lacks a key falls back to the English table.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

// DefaultLanguage is the table every other one falls back to.
var DefaultLanguage = language.English

// Translator is the keyed string table consumed by the controller and dialog.
type Translator interface {
	// T returns the text for key, or the key itself when no table has it.
	T(key string) string
	// Lookup returns the text for key and whether any table has it.
	Lookup(key string) (string, bool)
	// ErrorText maps a server error code through the validation section.
	// Unknown codes map to validation.unknown_error.
	ErrorText(code string) string
}

// Catalog is a Translator backed by one flattened table and an optional
// fallback.
type Catalog struct {
	tag      language.Tag
	entries  map[string]string
	fallback *Catalog
}

// Available lists the bundled languages, default first.
func Available() ([]language.Tag, error) {
	files, err := fs.Glob(locales, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	tags := []language.Tag{DefaultLanguage}
	for _, f := range files {
		tag, err := language.Parse(strings.TrimSuffix(path.Base(f), ".toml"))
		if err != nil {
			return nil, fmt.Errorf("bad locale file name %s: %w", f, err)
		}
		if tag.String() != DefaultLanguage.String() {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// Load negotiates preferred (a BCP 47 tag or Accept-Language style list)
// against the bundled tables and returns the best match. An empty or
// unparsable preference selects the default language.
func Load(preferred string) (*Catalog, error) {
	tags, err := Available()
	if err != nil {
		return nil, err
	}

	base, err := parse(DefaultLanguage)
	if err != nil {
		return nil, err
	}

	want, _, err := language.ParseAcceptLanguage(preferred)
	if err != nil || len(want) == 0 {
		return base, nil
	}

	_, idx, confidence := language.NewMatcher(tags).Match(want...)
	if confidence == language.No || idx == 0 {
		return base, nil
	}

	c, err := parse(tags[idx])
	if err != nil {
		return nil, err
	}
	c.fallback = base
	return c, nil
}

// MustLoad is Load for static inputs; it panics on error.
func MustLoad(preferred string) *Catalog {
	c, err := Load(preferred)
	if err != nil {
		panic(err)
	}
	return c
}

func parse(tag language.Tag) (*Catalog, error) {
	var sections map[string]map[string]string
	file := "locales/" + tag.String() + ".toml"
	if _, err := toml.DecodeFS(locales, file, &sections); err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}

	entries := make(map[string]string)
	for section, kv := range sections {
		for k, v := range kv {
			entries[section+"."+k] = v
		}
	}
	return &Catalog{tag: tag, entries: entries}, nil
}

// Tag is the language of the primary table.
func (c *Catalog) Tag() language.Tag { return c.tag }

func (c *Catalog) Lookup(key string) (string, bool) {
	for cur := c; cur != nil; cur = cur.fallback {
		if v, ok := cur.entries[key]; ok {
			return v, true
		}
	}
	return "", false
}

func (c *Catalog) T(key string) string {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	return key
}

func (c *Catalog) ErrorText(code string) string {
	if code != "" {
		if v, ok := c.Lookup("validation." + code); ok {
			return v
		}
	}
	return c.T("validation.unknown_error")
}
