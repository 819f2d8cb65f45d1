package risk

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GeneralRisk is the category assigned to keywords absent from the category map.
const GeneralRisk = "General Risk"

// ErrInvalidLexicon indicates a lexicon resource that cannot be used for classification.
var ErrInvalidLexicon = errors.New("invalid lexicon")

//go:embed lexicon.toml
var defaultLexicon []byte

// LexiconFile is the on-disk shape of a lexicon resource.
// Keywords is ordered; Categories maps a keyword phrase to its category name.
type LexiconFile struct {
	Keywords   []string          `toml:"keywords" json:"keywords"`
	Categories map[string]string `toml:"categories" json:"categories"`
}

type entry struct {
	phrase   string
	category string
	pattern  *regexp.Regexp
}

// Lexicon is an immutable, ordered set of risk keyword phrases and their categories.
// Construct it once at startup and share it; it is safe for concurrent use.
type Lexicon struct {
	entries    []entry
	categories map[string]string
}

// NewLexicon builds a Lexicon from an ordered keyword list and a category map.
// Phrases are trimmed and lower-cased. Repeated phrases keep their first position.
func NewLexicon(keywords []string, categories map[string]string) (*Lexicon, error) {
	normalized := make(map[string]string, len(categories))
	for k, v := range categories {
		normalized[normalize(k)] = strings.TrimSpace(v)
	}

	seen := make(map[string]bool, len(keywords))
	entries := make([]entry, 0, len(keywords))

	for i, kw := range keywords {
		phrase := normalize(kw)
		if phrase == "" {
			return nil, fmt.Errorf("%w: keyword %d is empty", ErrInvalidLexicon, i)
		}
		if seen[phrase] {
			continue
		}
		seen[phrase] = true

		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("%w: compile %q: %w", ErrInvalidLexicon, phrase, err)
		}

		category := normalized[phrase]
		if category == "" {
			category = GeneralRisk
		}

		entries = append(entries, entry{
			phrase:   phrase,
			category: category,
			pattern:  pattern,
		})
	}

	index := make(map[string]string, len(entries))
	for _, e := range entries {
		index[e.phrase] = e.category
	}

	return &Lexicon{entries: entries, categories: index}, nil
}

// ParseLexicon decodes a TOML lexicon resource.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f LexiconFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLexicon, err)
	}
	if len(f.Keywords) == 0 {
		return nil, fmt.Errorf("%w: no keywords", ErrInvalidLexicon)
	}
	return NewLexicon(f.Keywords, f.Categories)
}

// ReadLexicon loads a TOML lexicon resource from path.
func ReadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// DefaultLexicon returns the embedded lexicon shipped with the module.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// Len returns the number of distinct keyword phrases.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Keywords returns the keyword phrases in lexicon order.
func (l *Lexicon) Keywords() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.phrase
	}
	return out
}

// Category returns the category for phrase, or GeneralRisk when unmapped.
func (l *Lexicon) Category(phrase string) string {
	if c, ok := l.categories[normalize(phrase)]; ok {
		return c
	}
	return GeneralRisk
}

// File returns the lexicon in its resource shape, with every keyword's
// resolved category.
func (l *Lexicon) File() LexiconFile {
	f := LexiconFile{
		Keywords:   l.Keywords(),
		Categories: make(map[string]string, len(l.entries)),
	}
	for _, e := range l.entries {
		f.Categories[e.phrase] = e.category
	}
	return f
}

// Match returns the phrases found in text, in lexicon order.
func (l *Lexicon) Match(text string) []string {
	matched := make([]string, 0)
	for _, e := range l.entries {
		if e.pattern.MatchString(text) {
			matched = append(matched, e.phrase)
		}
	}
	return matched
}

// Categorize maps phrases to their categories, keeping first-appearance order
// and dropping repeats.
func (l *Lexicon) Categorize(phrases []string) []string {
	categories := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		c := l.Category(p)
		if seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	return categories
}

func normalize(phrase string) string {
	return strings.ToLower(strings.TrimSpace(phrase))
}
