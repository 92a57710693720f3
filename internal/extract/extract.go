// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract derives record attributes from a parsed detail
// document. Every attribute is independently optional: a missing label
// or a failed parse resolves that one attribute to absent and never
// affects its siblings.
package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

// notFoundSentinel is the heading text the vendor serves for identifiers
// that do not exist. It must be checked before any field extraction.
const notFoundSentinel = "Page Not Found"

// nameSelector matches the plasmid name on the detail page.
const nameSelector = "span.material-name"

// fieldSelector matches the labeled attribute blocks: each is a label
// string paired with a sibling content block inside one list item.
const fieldSelector = "li.field"

// NotFound reports whether the document is the vendor's "no such
// identifier" page. Matching identifiers are skipped entirely.
func NotFound(doc *goquery.Document) bool {
	if strings.Contains(doc.Find("title").Text(), notFoundSentinel) {
		return true
	}
	found := false
	doc.Find("h1,h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(s.Text()), notFoundSentinel) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Name returns the plasmid name from the detail document. ok is false
// when no name is resolvable; such identifiers (pooled or aggregate
// resources) are discarded, not failed.
func Name(doc *goquery.Document) (string, bool) {
	name := strings.TrimSpace(doc.Find(nameSelector).First().Text())
	return name, name != ""
}

// rule describes how one attribute is derived from its labeled block:
// the label tokens are stripped from the front, trim tokens from the
// back, and the remainder joins into the value.
type rule struct {
	label  string
	trim   int
	assign func(p *types.Plasmid, value string)
}

// The trailing trim on the backbone reflects that field's page layout:
// the block ends with a fixed three-token "(Search Vector Database)"
// affordance that is not part of the backbone name.
var rules = []rule{
	{label: "Vector backbone", trim: 3, assign: func(p *types.Plasmid, v string) { p.Backbone = &v }},
	{label: "Vector type", assign: func(p *types.Plasmid, v string) { p.VectorType = &v }},
	{label: "Selectable markers", assign: func(p *types.Plasmid, v string) { p.Marker = &v }},
	{label: "Bacterial Resistance(s)", assign: func(p *types.Plasmid, v string) { p.Resistance = &v }},
	{label: "Growth Temperature", assign: func(p *types.Plasmid, v string) { p.GrowthTemp = &v }},
	{label: "Growth Strain(s)", assign: func(p *types.Plasmid, v string) { p.GrowthStrain = &v }},
	{label: "Growth instructions", assign: func(p *types.Plasmid, v string) { p.GrowthInstructions = &v }},
	{label: "Copy number", assign: func(p *types.Plasmid, v string) { p.CopyNumber = &v }},
	{label: "Gene/Insert name", assign: func(p *types.Plasmid, v string) { p.GeneInsert = &v }},
	{label: "Total vector size (bp)", assign: assignSize},
}

func assignSize(p *types.Plasmid, v string) {
	// A non-numeric remainder resolves to absent, not an error.
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	p.Size = &n
}

// Rules returns the attribute extraction steps for the detail document.
// The caller (the assembler) runs each step through its retry executor so
// extraction composes under the same policy as network operations.
func Rules(doc *goquery.Document, p *types.Plasmid) []func() error {
	steps := make([]func() error, 0, len(rules))
	for _, r := range rules {
		r := r
		steps = append(steps, func() error {
			if v, ok := fieldValue(doc, r.label, r.trim); ok {
				r.assign(p, v)
			}
			return nil
		})
	}
	return steps
}

// Populate applies the whole rule table directly. Equivalent to running
// every step from Rules without a retry wrapper.
func Populate(doc *goquery.Document, p *types.Plasmid) {
	for _, step := range Rules(doc, p) {
		step()
	}
}

// fieldValue finds the labeled block and returns the value tokens joined
// by single spaces. The label tokens lead the block's normalized text;
// trim tokens are dropped from the end. ok is false when the label is
// absent or nothing remains after trimming.
func fieldValue(doc *goquery.Document, label string, trim int) (string, bool) {
	labelTokens := strings.Fields(label)

	var value string
	found := false
	doc.Find(fieldSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		tokens := strings.Fields(s.Text())
		if !hasPrefix(tokens, labelTokens) {
			return true
		}
		rest := tokens[len(labelTokens):]
		if trim > 0 {
			if len(rest) <= trim {
				return true
			}
			rest = rest[:len(rest)-trim]
		}
		if len(rest) == 0 {
			return true
		}
		value = strings.Join(rest, " ")
		found = true
		return false
	})
	return value, found
}

func hasPrefix(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if tokens[i] != p {
			return false
		}
	}
	return true
}
