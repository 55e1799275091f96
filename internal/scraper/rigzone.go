package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"petromatch/internal/domain/job"
)

const (
	rigzoneContainer   = "article.update-block"
	rigzoneTitleLink   = "h3 a"
	rigzoneAddress     = "address"
	rigzoneDescription = "div.description"
	rigzoneFeatured    = `img[alt="Featured Employer"]`
	featuredEmployer   = "Featured Employer"
	rigzoneApplyFooter = "Apply through RigZone for full job details and requirements."
)

// ExtractRigzone parses RigZone result pages, where the employer name and
// location share one <address> block separated only by <br> tags. Board
// selectors, when configured, override the built-in ones.
func ExtractRigzone(content []byte, pageURL string, board job.Board) ([]ItemResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	container := pickNonEmpty(board.Selectors.JobContainer, rigzoneContainer)
	chain := DefaultLocationChain()

	articles := doc.Find(container)
	out := make([]ItemResult, 0, articles.Length())
	articles.Each(func(_ int, s *goquery.Selection) {
		out = append(out, guardItem(func() ItemResult {
			return extractRigzoneArticle(s, pageURL, board, chain)
		}))
	})
	return out, nil
}

func extractRigzoneArticle(s *goquery.Selection, pageURL string, board job.Board, chain LocationChain) ItemResult {
	sel := board.Selectors

	link := s.Find(pickNonEmpty(sel.Title, rigzoneTitleLink)).First()
	title := cleanText(link.Text())
	if title == "" {
		return Skip(SkipMissingTitle, "")
	}

	href, _ := link.Attr("href")
	if sel.URL != "" {
		if h := fieldLink(s, sel.URL); h != "" {
			href = h
		}
	}

	details := cleanText(s.Find(pickNonEmpty(sel.Description, rigzoneDescription)).First().Text())

	in := AddressInput{
		Company:  fieldText(s, sel.Company),
		Location: fieldText(s, sel.Location),
	}
	if addr := s.Find(rigzoneAddress).First(); addr.Length() > 0 {
		in.Parts = addressParts(addr)
	} else {
		in.Parts = looseParts(s, title, details)
	}
	cl := chain.Resolve(in)

	featured := s.Find(rigzoneFeatured).Length() > 0

	return Ok(RawJobRecord{
		Title:       title,
		Company:     cl.Company,
		Location:    cl.Location,
		URL:         ResolveURL(board.BaseURL, pageURL, jobsPageURL(board), href),
		Description: rigzoneDescriptionText(title, cl, featured, details),
	})
}

// addressParts returns the direct children of the address block as text,
// which splits it on <br> boundaries.
func addressParts(addr *goquery.Selection) []string {
	var parts []string
	addr.Contents().Each(func(_ int, c *goquery.Selection) {
		t := cleanText(c.Text())
		if t == "" || t == featuredEmployer {
			return
		}
		parts = append(parts, t)
	})
	return parts
}

// looseParts is used when the article has no address block: the remaining
// text lines of the container, minus the title and description.
func looseParts(s *goquery.Selection, title, details string) []string {
	var parts []string
	for _, line := range strings.Split(s.Text(), "\n") {
		line = cleanText(line)
		if line == "" || line == title || line == featuredEmployer {
			continue
		}
		if details != "" && strings.Contains(details, line) {
			continue
		}
		parts = append(parts, line)
	}
	return parts
}

// rigzoneDescriptionText synthesizes a description because result cards carry
// at most a short teaser.
func rigzoneDescriptionText(title string, cl CompanyLocation, featured bool, details string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Position: %s\nCompany: %s\nLocation: %s", title, cl.Company, cl.Location)
	if featured {
		b.WriteString("\nFeatured Employer: Yes")
	}
	if details != "" {
		fmt.Fprintf(&b, "\n\nJob Details: %s", details)
	}
	b.WriteString("\n\n" + rigzoneApplyFooter)
	return b.String()
}
