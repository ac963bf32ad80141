package authorities

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/lexcite/pkg/citation"
)

// ExportFormat selects a serialization for citation lists.
type ExportFormat string

const (
	ExportJSON         ExportFormat = "json"
	ExportCSV          ExportFormat = "csv"
	ExportBibliography ExportFormat = "bibtex-like"
)

// bibKeyMaxLen caps the length of a bibliography entry key.
const bibKeyMaxLen = 20

// FlatRecord is the tabular export shape for one citation.
type FlatRecord struct {
	Category     Category              `json:"category,omitempty"`
	Type         citation.CitationType `json:"type"`
	FullCitation string                `json:"full_citation"`
	Title        string                `json:"title,omitempty"`
	Author       string                `json:"author,omitempty"`
	Year         string                `json:"year,omitempty"`
	IsValid      bool                  `json:"is_valid"`
}

// FlatRecords flattens the table bucket by bucket, in display order, with
// each record tagged by its category. Row counts per category always equal
// the bucket entry counts.
func (t *TableOfAuthorities) FlatRecords() []FlatRecord {
	var records []FlatRecord
	for _, category := range Categories {
		for _, cite := range t.Bucket(category) {
			record := flatten(cite)
			record.Category = category
			records = append(records, record)
		}
	}
	return records
}

// Export serializes a citation list to the requested format.
func Export(citations []*citation.ParsedCitation, format ExportFormat) (string, error) {
	switch format {
	case ExportJSON:
		return exportJSON(citations)
	case ExportCSV:
		return exportCSV(citations)
	case ExportBibliography:
		return exportBibliography(citations), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// BibKey derives the deterministic bibliography entry key: the title (or
// full citation) lowercased, stripped of non-alphanumeric characters, and
// truncated to 20 characters.
func BibKey(cite *citation.ParsedCitation) string {
	base := cite.Title
	if base == "" {
		base = cite.FullCitation
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= bibKeyMaxLen {
			break
		}
	}
	return b.String()
}

func flatten(cite *citation.ParsedCitation) FlatRecord {
	return FlatRecord{
		Type:         cite.Type,
		FullCitation: cite.FullCitation,
		Title:        cite.Title,
		Author:       cite.Author,
		Year:         cite.Year,
		IsValid:      cite.IsValid,
	}
}

func exportJSON(citations []*citation.ParsedCitation) (string, error) {
	records := make([]FlatRecord, 0, len(citations))
	for _, cite := range citations {
		records = append(records, flatten(cite))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(data), nil
}

func exportCSV(citations []*citation.ParsedCitation) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"type", "full_citation", "title", "author", "year", "is_valid"}); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, cite := range citations {
		row := []string{
			string(cite.Type), cite.FullCitation, cite.Title,
			cite.Author, cite.Year, strconv.FormatBool(cite.IsValid),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	return b.String(), nil
}

// exportBibliography renders bibtex-style entries. Cases use the joined
// party names as the title field when no title is set.
func exportBibliography(citations []*citation.ParsedCitation) string {
	if len(citations) == 0 {
		return ""
	}
	var b strings.Builder
	for _, cite := range citations {
		title := cite.Title
		if title == "" {
			title = cite.Component(citation.ComponentParty)
		}

		fmt.Fprintf(&b, "@%s{%s,\n", cite.Type, BibKey(cite))
		if title != "" {
			fmt.Fprintf(&b, "  title = {%s},\n", title)
		}
		if cite.Author != "" {
			fmt.Fprintf(&b, "  author = {%s},\n", cite.Author)
		}
		if cite.Year != "" {
			fmt.Fprintf(&b, "  year = {%s},\n", cite.Year)
		}
		fmt.Fprintf(&b, "  note = {%s},\n", cite.FullCitation)
		b.WriteString("}\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
