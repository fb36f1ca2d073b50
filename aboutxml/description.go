// Package aboutxml reads and rewrites the <description> element of mod
// metadata files (about.xml) and manages the translation marker comment.
//
// Extraction and replacement always try a structured parse first and fall
// back to a regular expression when the document is not well-formed XML.
// Only the first <description> element in document order is ever touched.
package aboutxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// descriptionTag is the element name looked up in the document.
const descriptionTag = "description"

// ErrNoDescription is returned when a document has no <description> element.
var ErrNoDescription = errors.New("no <description> element")

// ---------------------------------------------------------------------------
// Result types
// ---------------------------------------------------------------------------

// Strategy identifies which path produced a Result.
type Strategy int

const (
	// Structured means the document was parsed into an element tree.
	Structured Strategy = iota
	// Fallback means the regular expression path was used.
	Fallback
)

func (s Strategy) String() string {
	switch s {
	case Structured:
		return "structured"
	case Fallback:
		return "fallback"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Result is the outcome of an extraction or replacement.
// For extraction Text is the trimmed description; for replacement it is the
// whole rewritten document.
type Result struct {
	Text     string
	Strategy Strategy
	// Found is false when no <description> element was located.
	Found bool
}

// reDescription matches the first <description ...>...</description> span.
// Group 1 is the opening tag, group 2 the inner content, group 3 the closing
// tag. Self-closing <description/> never matches.
var reDescription = regexp.MustCompile(`(?is)(<description(?:\s[^>]*[^/>])?\s*>)(.*?)(</description\s*>)`)

// ---------------------------------------------------------------------------
// Extraction
// ---------------------------------------------------------------------------

// Extract returns the trimmed text of the first <description> element, or ""
// if there is none.
func Extract(text string) string {
	return ExtractResult(text).Text
}

// ExtractResult is Extract with the strategy that produced the value.
func ExtractResult(text string) Result {
	doc, err := parse(text)
	if err != nil {
		return extractFallback(text)
	}
	el := findDescription(&doc.Element)
	if el == nil {
		return Result{Strategy: Structured}
	}
	return Result{
		Text:     strings.TrimSpace(innerText(el)),
		Strategy: Structured,
		Found:    true,
	}
}

func extractFallback(text string) Result {
	m := reDescription.FindStringSubmatch(text)
	if m == nil {
		return Result{Strategy: Fallback}
	}
	return Result{Text: strings.TrimSpace(unescapeText(m[2])), Strategy: Fallback, Found: true}
}

// ---------------------------------------------------------------------------
// Replacement
// ---------------------------------------------------------------------------

// Replace sets the content of the first <description> element to newText and
// returns the rewritten document. Existing child markup inside the element
// is discarded.
//
// The structured path re-serializes the whole document with two-space
// indentation. When the document cannot be parsed or has no description
// element, the fallback path is used instead. Callers should still check
// HasDescriptionTag on a structured result and call ReplaceFallback if it
// fails.
func Replace(text, newText string) (Result, error) {
	newText = normalizeNewlines(newText)

	out, err := replaceStructured(text, newText)
	if err == nil {
		return Result{Text: out, Strategy: Structured, Found: true}, nil
	}
	return ReplaceFallback(text, newText)
}

// ReplaceFallback rewrites the inner content of the first
// <description ...>...</description> span, keeping the opening tag and its
// attributes. newText is escaped as character data. Everything else in the
// document is left byte-for-byte intact.
func ReplaceFallback(text, newText string) (Result, error) {
	loc := reDescription.FindStringSubmatchIndex(text)
	if loc == nil {
		return Result{Text: text, Strategy: Fallback}, ErrNoDescription
	}
	// loc[4]:loc[5] is the inner content group.
	out := text[:loc[4]] + textEscaper.Replace(normalizeNewlines(newText)) + text[loc[5]:]
	return Result{Text: out, Strategy: Fallback, Found: true}, nil
}

// HasDescriptionTag reports whether text still contains a literal
// <description> or </description> tag.
func HasDescriptionTag(text string) bool {
	return strings.Contains(text, "<description>") || strings.Contains(text, "</description>")
}

func replaceStructured(text, newText string) (string, error) {
	doc, err := parse(text)
	if err != nil {
		return "", err
	}
	el := findDescription(&doc.Element)
	if el == nil {
		return "", ErrNoDescription
	}

	for len(el.Child) > 0 {
		el.RemoveChildAt(0)
	}
	el.SetText(newText)

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serializing document: %w", err)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Tree helpers
// ---------------------------------------------------------------------------

// parse reads text into an etree document. Input is checked for
// well-formedness first so mismatched or unclosed tags are reported as
// errors; etree alone accepts a truncated document.
func parse(text string) (*etree.Document, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	if err := checkWellFormed(text); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return doc, nil
}

// checkWellFormed runs text through a strict decoder and reports the first
// syntax error, including an element left open at end of input.
func checkWellFormed(text string) error {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, ok := tok.(xml.StartElement); ok {
			sawRoot = true
		}
	}
	if !sawRoot {
		return errors.New("no root element")
	}
	return nil
}

// findDescription returns the first <description> element below e in
// depth-first document order.
func findDescription(e *etree.Element) *etree.Element {
	for _, child := range e.ChildElements() {
		if child.Tag == descriptionTag {
			return child
		}
		if found := findDescription(child); found != nil {
			return found
		}
	}
	return nil
}

// innerText concatenates all character data below e.
func innerText(e *etree.Element) string {
	var b strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			b.WriteString(innerText(t))
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Character data
// ---------------------------------------------------------------------------

// textEscaper escapes the characters that cannot appear literally in
// character data. Line breaks are kept as is.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// entityUnescaper decodes the predefined entities when the content is not
// well-formed enough for the decoder.
var entityUnescaper = strings.NewReplacer(
	"&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&",
)

// unescapeText turns raw element content into its text, the same way the
// structured path sees it: entities and CDATA decoded, child tags dropped.
func unescapeText(raw string) string {
	dec := xml.NewDecoder(strings.NewReader("<x>" + raw + "</x>"))
	dec.Strict = true
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return b.String()
		}
		if err != nil {
			return entityUnescaper.Replace(raw)
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
