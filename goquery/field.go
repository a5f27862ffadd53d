// Package goquery implements listing extraction on top of the goquery
// document parser: the ordered-fallback field extractor, the result-card and
// detail-page extractors, and the page scraper.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/olxscrape"
)

// Parse reads an HTML document and returns its root selection.
func Parse(html string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, olxscrape.Errorf(olxscrape.EINTERNAL, "failed to parse HTML: %v", err)
	}
	return doc.Selection, nil
}

// Locator is one candidate query for a field value.
type Locator struct {
	// Selector is a CSS selector evaluated against the descendants of the root.
	Selector string

	// Attr names the attribute to read from the first match.
	// When empty, the match's text is used.
	Attr string

	// Accept, if set, must return true for the candidate to be used.
	Accept func(string) bool
}

// Field is an ordered list of locators for one field. Earlier locators
// take priority: the order encodes confidence across layout variants.
type Field []Locator

// Extract evaluates the field's locators in order against root and returns
// the first non-empty accepted value, or def if none qualifies.
func Extract(root *goquery.Selection, field Field, def string) string {
	for _, loc := range field {
		if v, ok := loc.value(root); ok {
			return v
		}
	}
	return def
}

func (l Locator) value(root *goquery.Selection) (string, bool) {
	node := root.Find(l.Selector).First()
	if node.Length() == 0 {
		return "", false
	}

	var v string
	if l.Attr != "" {
		v = strings.TrimSpace(node.AttrOr(l.Attr, ""))
	} else {
		v = Text(node)
	}

	if v == "" {
		return "", false
	}
	if l.Accept != nil && !l.Accept(v) {
		return "", false
	}
	return v, true
}

// Text returns the text content of sel with whitespace runs collapsed to a
// single space and the ends trimmed.
func Text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

var priceNoise = strings.NewReplacer(" ", "", ",", "", ".", "")

// IsPrice reports whether s looks like a price: it carries the currency
// marker, or it is made of digits and separators only.
func IsPrice(s string) bool {
	if strings.Contains(s, "zł") {
		return true
	}
	digits := priceNoise.Replace(s)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var viewTokens = []string{"wyświetl", "view", "obejrz"}

// MentionsViews reports whether s reads like a view counter rather than an
// unrelated number.
func MentionsViews(s string) bool {
	lower := strings.ToLower(s)
	for _, tok := range viewTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// isWebLink rejects javascript:, mailto:, tel: and data: references.
func isWebLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return !strings.HasPrefix(href, "javascript:") &&
		!strings.HasPrefix(href, "mailto:") &&
		!strings.HasPrefix(href, "tel:") &&
		!strings.HasPrefix(href, "data:")
}

// resolveURL resolves href against base. Absolute http(s) URLs pass through.
// Returns an empty string if href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
