package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// A TJ adjustment below this value (thousandths of text space) is wide enough
// to read as a word gap.
const kernSpace = -200

// pdfText reads every page's content stream and joins the recovered page
// text with blank lines so page breaks act as paragraph breaks.
func pdfText(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	return joinPages(ctx.PageCount, func(i int) (string, error) {
		r, err := pdfcpu.ExtractPageContent(ctx, i)
		if err != nil || r == nil {
			return "", err
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return contentText(content), nil
	})
}

// joinPages collects the text of pages 1..count. A page that fails is skipped
// and reported through an ErrPartial error alongside the text of the pages
// that succeeded. When no page yields text and at least one failed, the page
// errors are returned without text.
func joinPages(count int, page func(int) (string, error)) (string, error) {
	var (
		pages []string
		errs  []error
	)

	for i := 1; i <= count; i++ {
		text, err := page(i)
		if err != nil {
			errs = append(errs, fmt.Errorf("page %d: %w", i, err))
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(errs) == 0 {
		return strings.Join(pages, "\n\n"), nil
	}
	if len(pages) == 0 {
		return "", errors.Join(errs...)
	}
	return strings.Join(pages, "\n\n"), fmt.Errorf("%w: %w", ErrPartial, errors.Join(errs...))
}

// contentText interprets the text-showing operators of a content stream.
// Positioning operators that move to a new line emit a line break.
func contentText(content []byte) string {
	var (
		out      textWriter
		operands []operand
	)

	lx := lexer{src: content}
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}

		if tok.kind != kindOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			out.show(lastString(operands))
		case "'":
			out.newline()
			out.show(lastString(operands))
		case "\"":
			out.newline()
			out.show(lastString(operands))
		case "TJ":
			if n := len(operands); n > 0 && operands[n-1].kind == kindArray {
				for _, el := range operands[n-1].items {
					switch el.kind {
					case kindString:
						out.show(el.text)
					case kindNumber:
						if v, err := strconv.ParseFloat(el.text, 64); err == nil && v < kernSpace {
							out.space()
						}
					}
				}
			}
		case "T*", "ET":
			out.newline()
		case "Td", "TD":
			if n := len(operands); n >= 2 && operands[n-1].kind == kindNumber {
				if ty, err := strconv.ParseFloat(operands[n-1].text, 64); err == nil && ty != 0 {
					out.newline()
				} else {
					out.space()
				}
			}
		case "Tm":
			out.newline()
		case "ID":
			lx.skipInlineImage()
		}

		operands = operands[:0]
	}

	return out.String()
}

func lastString(operands []operand) string {
	if n := len(operands); n > 0 && operands[n-1].kind == kindString {
		return operands[n-1].text
	}
	return ""
}

type textWriter struct {
	b    strings.Builder
	last byte
}

func (w *textWriter) show(s string) {
	if s == "" {
		return
	}
	w.b.WriteString(s)
	w.last = s[len(s)-1]
}

func (w *textWriter) space() {
	if w.b.Len() > 0 && w.last != ' ' && w.last != '\n' {
		w.b.WriteByte(' ')
		w.last = ' '
	}
}

func (w *textWriter) newline() {
	if w.b.Len() > 0 && w.last != '\n' {
		w.b.WriteByte('\n')
		w.last = '\n'
	}
}

func (w *textWriter) String() string {
	lines := strings.Split(w.b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type kind int

const (
	kindOperator kind = iota
	kindNumber
	kindString
	kindName
	kindArray
	kindOther
)

type operand struct {
	kind  kind
	text  string
	items []operand
}

// lexer tokenizes a PDF content stream. Dictionaries are skipped as opaque
// operands; only strings, numbers, and arrays carry values.
type lexer struct {
	src []byte
	pos int
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isWhite(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

func (l *lexer) next() (operand, bool) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return operand{}, false
	}

	c := l.src[l.pos]
	switch {
	case c == '(':
		l.pos++
		return operand{kind: kindString, text: l.literal()}, true
	case c == '<' && l.peek(1) == '<':
		l.skipDict()
		return operand{kind: kindOther}, true
	case c == '<':
		l.pos++
		return operand{kind: kindString, text: l.hex()}, true
	case c == '[':
		l.pos++
		return l.array(), true
	case c == '/':
		l.pos++
		return operand{kind: kindName, text: l.word()}, true
	case c == ']' || c == ')' || c == '>' || c == '{' || c == '}':
		l.pos++
		return operand{kind: kindOther}, true
	}

	w := l.word()
	if w == "" {
		l.pos++
		return operand{kind: kindOther}, true
	}
	if isNumber(w) {
		return operand{kind: kindNumber, text: w}, true
	}
	return operand{kind: kindOperator, text: w}, true
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.src) && !isWhite(l.src[l.pos]) && !isDelim(l.src[l.pos]) {
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func isNumber(w string) bool {
	_, err := strconv.ParseFloat(w, 64)
	return err == nil
}

func (l *lexer) array() operand {
	arr := operand{kind: kindArray}
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			return arr
		}
		if l.src[l.pos] == ']' {
			l.pos++
			return arr
		}
		tok, ok := l.next()
		if !ok {
			return arr
		}
		arr.items = append(arr.items, tok)
	}
}

func (l *lexer) literal() string {
	var b strings.Builder
	depth := 1

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++

		switch c {
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return b.String()
			}
			b.WriteByte(c)
		case '\\':
			l.escape(&b)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func (l *lexer) escape(b *strings.Builder) {
	if l.pos >= len(l.src) {
		return
	}
	c := l.src[l.pos]
	l.pos++

	switch c {
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case '\r':
		if l.peek(0) == '\n' {
			l.pos++
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := int(c - '0')
		for i := 0; i < 2 && l.pos < len(l.src); i++ {
			d := l.src[l.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v*8 + int(d-'0')
			l.pos++
		}
		b.WriteByte(byte(v))
	default:
		b.WriteByte(c)
	}
}

func (l *lexer) hex() string {
	var digits []byte
	for l.pos < len(l.src) && l.src[l.pos] != '>' {
		if c := l.src[l.pos]; !isWhite(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++

	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return string(out)
}

func (l *lexer) skipDict() {
	depth := 0
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == '<' && l.peek(1) == '<':
			depth++
			l.pos += 2
		case l.src[l.pos] == '>' && l.peek(1) == '>':
			depth--
			l.pos += 2
			if depth == 0 {
				return
			}
		case l.src[l.pos] == '(':
			l.pos++
			l.literal()
		default:
			l.pos++
		}
	}
}

// skipInlineImage advances past binary inline image data up to the EI operator.
func (l *lexer) skipInlineImage() {
	end := bytes.Index(l.src[l.pos:], []byte("EI"))
	for end >= 0 {
		at := l.pos + end
		before := at == 0 || isWhite(l.src[at-1])
		after := at+2 >= len(l.src) || isWhite(l.src[at+2])
		if before && after {
			l.pos = at + 2
			return
		}
		next := bytes.Index(l.src[at+2:], []byte("EI"))
		if next < 0 {
			break
		}
		end = at + 2 + next - l.pos
	}
	l.pos = len(l.src)
}
