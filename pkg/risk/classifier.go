package risk

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/covenant/pkg/segmenter"
)

const (
	// hitBonus is the confidence added per matched keyword for Risky clauses.
	hitBonus = 0.02
	// maxBonus caps the total keyword bonus.
	maxBonus = 0.10
)

// Classifier labels clause text using a Lexicon and a Config.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	lexicon *Lexicon
	cfg     Config
}

// New creates a Classifier. Unset config fields take their defaults.
func New(lexicon *Lexicon, cfg Config) *Classifier {
	cfg.loadDefaults()
	return &Classifier{
		lexicon: lexicon,
		cfg:     cfg,
	}
}

// Lexicon returns the classifier's lexicon.
func (c *Classifier) Lexicon() *Lexicon {
	return c.lexicon
}

// Config returns the classifier's thresholds.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify scores a single clause text.
func (c *Classifier) Classify(text string) Assessment {
	matched := c.lexicon.Match(text)

	a := Assessment{
		Label:           LabelSafe,
		Confidence:      c.cfg.Safe(),
		MatchedKeywords: matched,
		Categories:      c.lexicon.Categorize(matched),
	}

	if len(matched) >= c.cfg.KeywordThreshold {
		a.Label = LabelRisky
		a.Confidence = c.riskyConfidence(len(matched))
	}

	return a
}

// ClassifyAll classifies every clause in place and returns the same slice.
// Clauses are partitioned across Config.Workers goroutines; each clause is
// scored independently, so order is preserved by index.
func (c *Classifier) ClassifyAll(clauses []Clause) []Clause {
	n := len(clauses)
	if n == 0 {
		return clauses
	}

	workers := max(min(c.cfg.Workers, n), 1)
	size := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)

	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				clauses[i].Apply(c.Classify(clauses[i].Text))
			}
			return nil
		})
	}

	// Classify cannot fail, so no worker returns an error.
	_ = g.Wait()
	return clauses
}

// Analyze runs the full pipeline over a document's text: segmentation,
// clause wrapping, classification, and aggregation.
func (c *Classifier) Analyze(text string) ([]Clause, Summary) {
	clauses := c.ClassifyAll(NewClauses(segmenter.Segment(text)))
	return clauses, Summarize(clauses)
}

func (c *Classifier) riskyConfidence(hits int) float64 {
	bonus := math.Min(maxBonus, float64(hits)*hitBonus)
	return round(math.Min(1.0, c.cfg.BaseRisky()+bonus), 3)
}

// round rounds half to even, so 6.25 becomes 6.2 and 18.75 becomes 18.8.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(v*scale) / scale
}
