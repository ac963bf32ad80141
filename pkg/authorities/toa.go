// Package authorities builds tables of authorities: categorized,
// deduplicated, sorted lists of the citations used in a document, plus
// flat-record and bibliography-style exports.
package authorities

import (
	"sort"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// Category names one bucket of a table of authorities.
type Category string

const (
	CategoryCases         Category = "cases"
	CategoryStatutes      Category = "statutes"
	CategoryRules         Category = "rules"
	CategoryConstitutions Category = "constitutions"
	CategoryRegulations   Category = "regulations"
	CategoryBooks         Category = "books"
	CategoryArticles      Category = "articles"
	CategoryOther         Category = "other"
)

// Categories lists the buckets in display order.
var Categories = []Category{
	CategoryCases, CategoryStatutes, CategoryRules, CategoryConstitutions,
	CategoryRegulations, CategoryBooks, CategoryArticles, CategoryOther,
}

// TableOfAuthorities holds the eight category buckets. Within a bucket no
// two entries share an identity key, and entries are sorted ascending by
// title, then leading party name, then full citation text.
type TableOfAuthorities struct {
	Cases         []*citation.ParsedCitation `json:"cases"`
	Statutes      []*citation.ParsedCitation `json:"statutes"`
	Rules         []*citation.ParsedCitation `json:"rules"`
	Constitutions []*citation.ParsedCitation `json:"constitutions"`
	Regulations   []*citation.ParsedCitation `json:"regulations"`
	Books         []*citation.ParsedCitation `json:"books"`
	Articles      []*citation.ParsedCitation `json:"articles"`
	Other         []*citation.ParsedCitation `json:"other"`
}

// Generate buckets citations by type, deduplicates each bucket by identity
// key (first seen wins), and sorts each bucket independently.
func Generate(citations []*citation.ParsedCitation) *TableOfAuthorities {
	table := &TableOfAuthorities{}
	seen := make(map[Category]map[string]bool)
	for _, category := range Categories {
		seen[category] = make(map[string]bool)
	}

	for _, cite := range citations {
		category := categoryFor(cite.Type)
		key := cite.IdentityKey()
		if seen[category][key] {
			continue
		}
		seen[category][key] = true
		bucket := table.bucket(category)
		*bucket = append(*bucket, cite)
	}

	for _, category := range Categories {
		bucket := table.bucket(category)
		sort.SliceStable(*bucket, func(i, j int) bool {
			return sortKey((*bucket)[i]) < sortKey((*bucket)[j])
		})
	}
	return table
}

// Bucket returns the entries of one category.
func (t *TableOfAuthorities) Bucket(category Category) []*citation.ParsedCitation {
	return *t.bucket(category)
}

// TotalEntries returns the entry count across all buckets.
func (t *TableOfAuthorities) TotalEntries() int {
	total := 0
	for _, category := range Categories {
		total += len(t.Bucket(category))
	}
	return total
}

func (t *TableOfAuthorities) bucket(category Category) *[]*citation.ParsedCitation {
	switch category {
	case CategoryCases:
		return &t.Cases
	case CategoryStatutes:
		return &t.Statutes
	case CategoryRules:
		return &t.Rules
	case CategoryConstitutions:
		return &t.Constitutions
	case CategoryRegulations:
		return &t.Regulations
	case CategoryBooks:
		return &t.Books
	case CategoryArticles:
		return &t.Articles
	default:
		return &t.Other
	}
}

func categoryFor(citationType citation.CitationType) Category {
	switch citationType {
	case citation.CitationTypeCase:
		return CategoryCases
	case citation.CitationTypeStatute:
		return CategoryStatutes
	case citation.CitationTypeRule:
		return CategoryRules
	case citation.CitationTypeConstitution:
		return CategoryConstitutions
	case citation.CitationTypeRegulation:
		return CategoryRegulations
	case citation.CitationTypeBook:
		return CategoryBooks
	case citation.CitationTypeArticle:
		return CategoryArticles
	default:
		return CategoryOther
	}
}

// sortKey is the ordinal comparison key: title, else leading party name,
// else the full citation text.
func sortKey(cite *citation.ParsedCitation) string {
	if cite.Title != "" {
		return cite.Title
	}
	if party := cite.FirstParty(); party != "" {
		return party
	}
	return cite.FullCitation
}
