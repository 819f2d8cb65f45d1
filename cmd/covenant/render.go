package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/JaimeStill/covenant/pkg/formatting"
	"github.com/JaimeStill/covenant/pkg/risk"
)

// report is the analyze output. Clauses may be filtered to Risky ones while
// Summary and Categories always describe the whole document.
type report struct {
	File       string         `json:"file"`
	Summary    risk.Summary   `json:"summary"`
	Categories map[string]int `json:"categories"`
	Clauses    []risk.Clause  `json:"clauses"`
}

func newReport(file string, clauses []risk.Clause, summary risk.Summary, riskyOnly bool) report {
	r := report{
		File:       filepath.Base(file),
		Summary:    summary,
		Categories: risk.Categories(clauses),
		Clauses:    clauses,
	}

	if riskyOnly {
		r.Clauses = slices.DeleteFunc(slices.Clone(clauses), func(c risk.Clause) bool {
			return c.Label != risk.LabelRisky
		})
	}

	return r
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSegments(w io.Writer, file string, clauses []string) error {
	if _, err := fmt.Fprintf(w, "%s: %d clauses\n", filepath.Base(file), len(clauses)); err != nil {
		return err
	}
	for i, c := range clauses {
		if _, err := fmt.Fprintf(w, "\n[%d]\n%s\n", i+1, c); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(w io.Writer, r report) error {
	s := r.Summary
	fmt.Fprintf(w, "%s: %d clauses, %d risky (%s), %d safe\n",
		r.File, s.Total, s.RiskyCount, formatting.FormatPercent(s.RiskPercentage), s.SafeCount)

	if len(r.Categories) > 0 {
		fmt.Fprintf(w, "categories: %s\n", categoryLine(r.Categories))
	}

	for _, c := range r.Clauses {
		confidence := ""
		if c.Confidence != nil {
			confidence = formatting.FormatConfidence(*c.Confidence)
		}

		fmt.Fprintf(w, "\n[%d] %s %s", c.ID, c.Label, confidence)
		if len(c.MatchedKeywords) > 0 {
			fmt.Fprintf(w, "  %s", strings.Join(c.MatchedKeywords, ", "))
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", indent(c.Text)); err != nil {
			return err
		}
	}

	return nil
}

func writeLexicon(w io.Writer, lexicon *risk.Lexicon) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEYWORD\tCATEGORY")
	for _, kw := range lexicon.Keywords() {
		fmt.Fprintf(tw, "%s\t%s\n", kw, lexicon.Category(kw))
	}
	return tw.Flush()
}

// categoryLine orders categories by count, then name.
func categoryLine(counts map[string]int) string {
	names := slices.SortedFunc(maps.Keys(counts), func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s %d", n, counts[n])
	}
	return strings.Join(parts, ", ")
}

func indent(text string) string {
	return "    " + strings.ReplaceAll(text, "\n", "\n    ")
}
