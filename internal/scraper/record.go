package scraper

import (
	"strings"
)

// RawJobRecord is what an adapter extracts from one job container. Every
// field except Title may be empty.
type RawJobRecord struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type SkipReason string

const (
	SkipMissingTitle SkipReason = "missing_title"
	SkipPanic        SkipReason = "panic"
)

// ItemResult is the outcome for one container: either a record or the
// reason it was skipped.
type ItemResult struct {
	Record  RawJobRecord
	Skipped SkipReason
	Detail  string
}

func Ok(r RawJobRecord) ItemResult { return ItemResult{Record: r} }

func Skip(reason SkipReason, detail string) ItemResult {
	return ItemResult{Skipped: reason, Detail: detail}
}

func (r ItemResult) OK() bool { return r.Skipped == "" }

// Page is one fetched listings page. Items holds one entry per container
// found, so an empty Items means the board has no further results.
type Page struct {
	Number int
	URL    string
	Items  []ItemResult
}

func (p Page) Records() []RawJobRecord {
	out := make([]RawJobRecord, 0, len(p.Items))
	for _, it := range p.Items {
		if it.OK() {
			out = append(out, it.Record)
		}
	}
	return out
}

func (p Page) SkippedCount() int {
	n := 0
	for _, it := range p.Items {
		if !it.OK() {
			n++
		}
	}
	return n
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}
