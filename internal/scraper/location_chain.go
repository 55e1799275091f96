package scraper

import (
	"regexp"
	"strings"

	"petromatch/internal/domain/job"
)

// AddressInput is what a site-specific adapter could find about the
// employer of one posting: values from dedicated sub-elements, if any, and
// the free-text parts of the block that mixes company and location.
type AddressInput struct {
	Company  string
	Location string
	Parts    []string
}

type CompanyLocation struct {
	Company  string
	Location string
}

// CompanyLocationStrategy fills the fields of cur that are still empty.
type CompanyLocationStrategy interface {
	Name() string
	Apply(in AddressInput, cur CompanyLocation) CompanyLocation
}

// LocationChain runs its strategies in order. Every strategy is attempted;
// none may overwrite a field an earlier one already set.
type LocationChain []CompanyLocationStrategy

func DefaultLocationChain() LocationChain {
	return LocationChain{
		StructuredStrategy{},
		PositionalStrategy{},
		RegexStrategy{},
		PlaceholderStrategy{},
	}
}

func (c LocationChain) Resolve(in AddressInput) CompanyLocation {
	var out CompanyLocation
	for _, s := range c {
		next := s.Apply(in, out)
		if out.Company == "" {
			out.Company = strings.TrimSpace(next.Company)
		}
		if out.Location == "" {
			out.Location = strings.TrimSpace(next.Location)
		}
	}
	return out
}

type StructuredStrategy struct{}

func (StructuredStrategy) Name() string { return "structured" }

func (StructuredStrategy) Apply(in AddressInput, cur CompanyLocation) CompanyLocation {
	return CompanyLocation{
		Company:  pickNonEmpty(cur.Company, in.Company),
		Location: pickNonEmpty(cur.Location, in.Location),
	}
}

var locationIndicators = []string{",", "offshore", "remote", "canada", "usa", "uae", "saudi"}

func hasLocationIndicator(s string) bool {
	s = strings.ToLower(s)
	for _, ind := range locationIndicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}

// PositionalStrategy takes the first part as the company and the last as the
// location. A lone part that looks like a place is left to RegexStrategy,
// which can still split "Company, City, Region".
type PositionalStrategy struct{}

func (PositionalStrategy) Name() string { return "positional" }

func (PositionalStrategy) Apply(in AddressInput, cur CompanyLocation) CompanyLocation {
	parts := nonEmpty(in.Parts)
	switch {
	case len(parts) >= 2:
		return CompanyLocation{Company: parts[0], Location: parts[len(parts)-1]}
	case len(parts) == 1 && !hasLocationIndicator(parts[0]):
		return CompanyLocation{Company: parts[0]}
	}
	return cur
}

var (
	companyCityRegion  = regexp.MustCompile(`^(.+?),\s*([^,]+,\s*[^,]+)$`)
	companyCityCountry = regexp.MustCompile(`^(.+)\s+(\S+,\s*[^,]+)$`)
)

// RegexStrategy matches the collapsed address text against the
// "Company, City, Region" and "Company City, Country" shapes.
type RegexStrategy struct{}

func (RegexStrategy) Name() string { return "regex" }

func (RegexStrategy) Apply(in AddressInput, cur CompanyLocation) CompanyLocation {
	text := cleanText(strings.Join(nonEmpty(in.Parts), " "))
	if text == "" {
		return cur
	}
	for _, re := range []*regexp.Regexp{companyCityRegion, companyCityCountry} {
		if m := re.FindStringSubmatch(text); m != nil {
			return CompanyLocation{Company: m[1], Location: m[2]}
		}
	}
	if hasLocationIndicator(text) {
		return CompanyLocation{Location: text}
	}
	return cur
}

type PlaceholderStrategy struct{}

func (PlaceholderStrategy) Name() string { return "placeholder" }

func (PlaceholderStrategy) Apply(_ AddressInput, _ CompanyLocation) CompanyLocation {
	return CompanyLocation{Company: job.DefaultCompany, Location: job.DefaultLocation}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = cleanText(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
