// Package analysis turns loaded titles into the aggregates charts are drawn from.
// Every function here is pure: titles in, a fresh aggregate out.
package analysis

import (
	"cmp"
	"slices"
	"strings"

	"github.com/j-veylop/catalog-eda/internal/models"
)

// TokenSeparator joins the values of multi-valued fields.
const TokenSeparator = ", "

// SplitMode selects which tokens of a multi-valued field are counted.
type SplitMode int

const (
	// AllTokens counts every token of the field.
	AllTokens SplitMode = iota
	// FirstTokenOnly counts only the first token, e.g. the primary country.
	FirstTokenOnly
)

// String returns the display name for a split mode.
func (m SplitMode) String() string {
	switch m {
	case AllTokens:
		return "all tokens"
	case FirstTokenOnly:
		return "first token only"
	default:
		return "unknown"
	}
}

// counter accumulates counts while remembering first-encounter order.
type counter struct {
	index   map[string]int
	entries models.FrequencyTable
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.entries[i].Count++
		return
	}
	c.index[label] = len(c.entries)
	c.entries = append(c.entries, models.FrequencyEntry{Label: label, Count: 1})
}

// top sorts by descending count, keeping first-encounter order for ties,
// and truncates to n entries when n > 0.
func (c *counter) top(n int) models.FrequencyTable {
	out := slices.Clone(c.entries)
	slices.SortStableFunc(out, func(a, b models.FrequencyEntry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = models.FrequencyTable{}
	}
	return out
}

// CountCategorical counts the values of a single-valued field. Titles with
// a missing value are skipped.
func CountCategorical(titles []models.Title, field models.Field, topN int) models.FrequencyTable {
	c := newCounter()
	for i := range titles {
		if v, ok := titles[i].Value(field); ok {
			c.add(v)
		}
	}
	return c.top(topN)
}

// CountTokens splits a multi-valued field on TokenSeparator and counts the
// resulting tokens. Tokens are not trimmed beyond the split itself.
func CountTokens(titles []models.Title, field models.Field, mode SplitMode, topN int) models.FrequencyTable {
	c := newCounter()
	for i := range titles {
		v, ok := titles[i].Value(field)
		if !ok {
			continue
		}
		if mode == FirstTokenOnly {
			first, _, _ := strings.Cut(v, TokenSeparator)
			c.add(first)
			continue
		}
		for _, tok := range strings.Split(v, TokenSeparator) {
			c.add(tok)
		}
	}
	return c.top(topN)
}

// CountReleaseYears counts titles per release year in ascending year order.
func CountReleaseYears(titles []models.Title) models.FrequencyTable {
	counts := make(map[int]int)
	for i := range titles {
		if titles[i].HasReleaseYear() {
			counts[*titles[i].ReleaseYear]++
		}
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	slices.Sort(years)

	out := make(models.FrequencyTable, 0, len(years))
	for _, y := range years {
		out = append(out, models.FrequencyEntry{Label: models.Bucket{Year: y}.String(), Count: counts[y]})
	}
	return out
}
