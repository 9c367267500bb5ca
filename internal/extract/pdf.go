package extract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
)

const (
	maxPageTreeDepth = 32
	maxPageTreeNodes = 10000
	maxContentBytes  = 64 << 20
)

var (
	errBadPageTree     = errors.New("malformed page tree")
	errUnclosedLiteral = errors.New("unterminated string in page content")
)

// PDFText is the extracted text of a document and how many pages it has.
type PDFText struct {
	Text      string
	PageCount int
}

// ReadPDF extracts the plain text of every page. Inside a page, a lone newline is
// a soft wrap and becomes a space; blank lines are kept. Pages are separated by a
// blank line. Extraction stops with ErrInvalidInput when ctx is done.
func ReadPDF(ctx context.Context, data []byte) (*PDFText, error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.ErrInvalidInput, "empty PDF upload")
	}
	if err := ctx.Err(); err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, err, "PDF extraction timed out")
	}

	type result struct {
		doc *PDFText
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: apperr.New(apperr.ErrInvalidInput, "could not read PDF: %v", p)}
			}
		}()
		doc, err := readPDF(ctx, data)
		done <- result{doc: doc, err: err}
	}()

	select {
	case res := <-done:
		return res.doc, res.err
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.ErrInvalidInput, ctx.Err(), "PDF extraction timed out")
	}
}

func readPDF(ctx context.Context, data []byte) (*PDFText, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, err, "could not read PDF: %v", err)
	}

	n := r.NumPage()
	w := &pageTreeWalker{}
	leaves, err := w.count(r.Trailer().Key("Root").Key("Pages"), 0)
	if err != nil || n > leaves {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, errBadPageTree, "could not read PDF: %v", errBadPageTree)
	}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, apperr.Wrap(apperr.ErrInvalidInput, err, "PDF extraction timed out")
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		if err := checkContents(p.V.Key("Contents")); err != nil {
			return nil, apperr.Wrap(apperr.ErrInvalidInput, err, "could not read PDF page %d: %v", i, err)
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if text == "" {
			continue
		}
		b.WriteString(unwrapLines(text))
		b.WriteString("\n\n")
	}

	return &PDFText{Text: collapseSpaces(b.String()), PageCount: n}, nil
}

// pageTreeWalker counts the leaf pages under a /Pages node, rejecting trees whose
// Kids are not arrays and trees that are too deep or too large.
type pageTreeWalker struct {
	nodes int
}

func (w *pageTreeWalker) count(node pdf.Value, depth int) (int, error) {
	w.nodes++
	if depth > maxPageTreeDepth || w.nodes > maxPageTreeNodes {
		return 0, errBadPageTree
	}

	switch node.Key("Type").Name() {
	case "Page":
		return 1, nil
	case "Pages":
		kids := node.Key("Kids")
		if kids.Kind() != pdf.Array {
			return 0, errBadPageTree
		}
		total := 0
		for i := 0; i < kids.Len(); i++ {
			c, err := w.count(kids.Index(i), depth+1)
			if err != nil {
				return 0, err
			}
			total += c
		}
		return total, nil
	}
	return 0, errBadPageTree
}

// checkContents makes sure every literal string in the page content is closed.
func checkContents(contents pdf.Value) error {
	var streams []pdf.Value
	switch contents.Kind() {
	case pdf.Stream:
		streams = append(streams, contents)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			if s := contents.Index(i); s.Kind() == pdf.Stream {
				streams = append(streams, s)
			}
		}
	}

	readers := make([]io.Reader, 0, len(streams))
	for _, s := range streams {
		rc := s.Reader()
		defer rc.Close()
		readers = append(readers, rc)
	}
	closed, err := literalsClosed(io.LimitReader(io.MultiReader(readers...), maxContentBytes))
	if err != nil {
		return err
	}
	if !closed {
		return errUnclosedLiteral
	}
	return nil
}

// literalsClosed scans a content stream and reports whether every "(" string has
// its matching ")". Escapes and comments are honoured.
func literalsClosed(r io.Reader) (bool, error) {
	br := bufio.NewReader(r)
	depth := 0
	escaped := false
	comment := false
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return depth == 0, nil
		}
		if err != nil {
			return false, err
		}

		switch {
		case depth > 0:
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '(':
				depth++
			case ')':
				depth--
			}
		case comment:
			if c == '\n' || c == '\r' {
				comment = false
			}
		case c == '%':
			comment = true
		case c == '(':
			depth = 1
		}
	}
}

// unwrapLines replaces every newline that has no newline directly before or after
// it with a space.
func unwrapLines(s string) string {
	rs := []rune(s)
	out := make([]rune, len(rs))
	for i, r := range rs {
		if r == '\n' {
			prev := i > 0 && rs[i-1] == '\n'
			next := i+1 < len(rs) && rs[i+1] == '\n'
			if !prev && !next {
				r = ' '
			}
		}
		out[i] = r
	}
	return string(out)
}

// collapseSpaces squeezes runs of spaces to one and trims the result.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' {
			if space {
				continue
			}
			space = true
		} else {
			space = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
