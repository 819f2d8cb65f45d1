// Package segmenter splits raw contract text into clause candidates.
//
// Segmentation is a two-level heuristic: the document is split into
// paragraphs on blank lines, then each paragraph is split again wherever a
// line opens with a numbering token ("12.", "12.3", "a)", "iv."). The result
// is a best-effort split, not a parse of the document's legal structure.
package segmenter

import (
	"regexp"
	"strings"
)

// MinTokens is the noise floor for a clause. Candidates with MinTokens or
// fewer whitespace-delimited tokens are discarded.
const MinTokens = 3

var (
	// A blank line may carry any Unicode space, such as the no-break spaces
	// that PDF extraction leaves behind. RE2's \s is ASCII-only.
	paragraphBreak = regexp.MustCompile(`\n[\s\p{Z}\x{85}]*\n`)

	// Anchored at line start only. Uppercase roman numerals and multi-level
	// numbering such as 1.1.1 are deliberately not recognised.
	delimiter = regexp.MustCompile(`(?m)^[ \t]*(?:\d+\.\d*|[a-z]\)|[ivx]+\.)`)

	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Segment returns the ordered clause candidates found in text.
// Empty or whitespace-only input yields an empty, non-nil slice.
func Segment(text string) []string {
	clauses := make([]string, 0)

	for _, para := range Paragraphs(text) {
		for _, clause := range splitParagraph(para) {
			if len(strings.Fields(clause)) > MinTokens {
				clauses = append(clauses, clause)
			}
		}
	}

	return clauses
}

// Paragraphs splits text on blank-line boundaries and returns the trimmed,
// non-empty paragraphs in document order.
func Paragraphs(text string) []string {
	text = lineEndings.Replace(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := paragraphBreak.Split(text, -1)
	paras := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitParagraph slices a paragraph at every delimiter offset. The delimiter
// stays attached to the start of the segment it introduces, and any text in
// front of the first delimiter becomes its own segment.
func splitParagraph(para string) []string {
	spans := delimiter.FindAllStringIndex(para, -1)
	if len(spans) == 0 {
		return []string{para}
	}

	bounds := make([]int, 0, len(spans)+2)
	if spans[0][0] > 0 {
		bounds = append(bounds, 0)
	}
	for _, span := range spans {
		bounds = append(bounds, span[0])
	}
	bounds = append(bounds, len(para))

	segments := make([]string, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		if seg := strings.TrimSpace(para[bounds[i]:bounds[i+1]]); seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
