package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"petromatch/internal/domain/job"
)

// Extract applies the board's declarative selectors to content. Missing
// selectors and absent elements yield empty fields; only a missing title
// skips a container.
func Extract(content []byte, pageURL string, board job.Board) ([]ItemResult, error) {
	sel := board.Selectors
	if strings.TrimSpace(sel.JobContainer) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	containers := doc.Find(sel.JobContainer)
	out := make([]ItemResult, 0, containers.Length())
	containers.Each(func(_ int, s *goquery.Selection) {
		out = append(out, guardItem(func() ItemResult {
			return extractContainer(s, pageURL, board)
		}))
	})
	return out, nil
}

func extractContainer(s *goquery.Selection, pageURL string, board job.Board) ItemResult {
	sel := board.Selectors

	title := fieldText(s, sel.Title)
	if title == "" {
		return Skip(SkipMissingTitle, "")
	}

	raw := fieldLink(s, sel.URL)
	if raw == "" && sel.URL == "" {
		raw = fieldLink(s, sel.Title)
	}

	return Ok(RawJobRecord{
		Title:       title,
		Company:     fieldText(s, sel.Company),
		Location:    fieldText(s, sel.Location),
		URL:         ResolveURL(board.BaseURL, pageURL, jobsPageURL(board), raw),
		Description: fieldText(s, sel.Description),
	})
}

func fieldText(s *goquery.Selection, selector string) string {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return ""
	}
	return cleanText(s.Find(selector).First().Text())
}

// fieldLink reads the href of the matched element, of an anchor inside it or
// of its nearest anchor ancestor.
func fieldLink(s *goquery.Selection, selector string) string {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return ""
	}
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return ""
	}
	if href, ok := el.Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	if href, ok := el.Find("a[href]").First().Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	if href, ok := el.Closest("a[href]").Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	return ""
}
