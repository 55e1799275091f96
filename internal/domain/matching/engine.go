package matching

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"petromatch/internal/domain/job"
)

// Config holds the scoring variant. Both the full and the placeholder CV
// paths share the same tables and differ only by these parameters.
type Config struct {
	BaseScore     float64
	Floor         float64
	Ceiling       float64
	DegradedFloor float64

	ExactLocationBonus  float64
	RegionLocationBonus float64
	WorldwideBonus      float64
	LocationCap         float64

	TopK     int
	MinScore float64
}

func DefaultConfig() Config {
	return Config{
		BaseScore:           0.3,
		Floor:               0.3,
		Ceiling:             0.95,
		DegradedFloor:       0.3,
		ExactLocationBonus:  0.15,
		RegionLocationBonus: 0.10,
		WorldwideBonus:      0.05,
		LocationCap:         0.20,
		TopK:                10,
		MinScore:            0.3,
	}
}

type Mode string

const (
	ModeFull     Mode = "full"
	ModeDegraded Mode = "degraded"
)

type Scored struct {
	Listing job.Listing
	Score   float64
}

type Engine struct {
	cfg    Config
	tables Tables
}

func NewEngine(cfg Config, tables Tables) *Engine {
	def := DefaultConfig()
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = def.Ceiling
	}
	if cfg.ExactLocationBonus <= 0 {
		cfg.ExactLocationBonus = def.ExactLocationBonus
	}
	if cfg.RegionLocationBonus <= 0 {
		cfg.RegionLocationBonus = def.RegionLocationBonus
	}
	if cfg.WorldwideBonus <= 0 {
		cfg.WorldwideBonus = def.WorldwideBonus
	}
	if cfg.LocationCap <= 0 {
		cfg.LocationCap = def.LocationCap
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.Floor > cfg.Ceiling {
		cfg.Floor = cfg.Ceiling
	}
	if cfg.DegradedFloor > cfg.Ceiling {
		cfg.DegradedFloor = cfg.Ceiling
	}
	return &Engine{cfg: cfg, tables: tables}
}

func (e *Engine) Config() Config { return e.cfg }

// IsPlaceholder reports whether cvText is the stand-in produced for uploads
// whose text could not be extracted.
func IsPlaceholder(cvText string) bool {
	t := strings.ToLower(cvText)
	return strings.Contains(t, "binary file:") || strings.Contains(t, "file size:")
}

func ModeFor(cvText string) Mode {
	if IsPlaceholder(cvText) {
		return ModeDegraded
	}
	return ModeFull
}

func (e *Engine) Score(cvText string, l job.Listing, preferredLocations []string) float64 {
	if ModeFor(cvText) == ModeDegraded {
		return e.scoreDegraded(l)
	}
	return e.scoreFull(Normalize(cvText), l, normalizeAll(preferredLocations))
}

// MatchAll scores every listing, keeps the TopK best and drops anything
// below MinScore. Ties keep the lower listing ID first.
func (e *Engine) MatchAll(cvText string, listings []job.Listing, preferredLocations []string) []Scored {
	return e.MatchAllAs(ModeFor(cvText), cvText, listings, preferredLocations)
}

// MatchAllAs is MatchAll with the mode decided by the caller, for CVs whose
// extraction outcome is already known.
func (e *Engine) MatchAllAs(mode Mode, cvText string, listings []job.Listing, preferredLocations []string) []Scored {
	if len(listings) == 0 {
		return nil
	}

	cv := Normalize(cvText)
	prefs := normalizeAll(preferredLocations)

	scored := make([]Scored, 0, len(listings))
	for _, l := range listings {
		var s float64
		if mode == ModeDegraded {
			s = e.scoreDegraded(l)
		} else {
			s = e.scoreFull(cv, l, prefs)
		}
		scored = append(scored, Scored{Listing: l, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Listing.ID < scored[j].Listing.ID
	})

	if len(scored) > e.cfg.TopK {
		scored = scored[:e.cfg.TopK]
	}

	out := scored[:0]
	for _, s := range scored {
		if s.Score >= e.cfg.MinScore {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) scoreFull(cv string, l job.Listing, prefs []string) float64 {
	// The location field only feeds the preference bonus below.
	jobText := Normalize(l.Title + " " + l.Description + " " + l.Company)

	score := e.cfg.BaseScore
	for _, kw := range e.tables.Keywords {
		if strings.Contains(cv, kw.Term) && strings.Contains(jobText, kw.Term) {
			score += kw.Weight
		}
	}

	score += e.locationBonus(Normalize(l.Location), prefs)

	title := Normalize(l.Title)
	for _, tb := range e.tables.TitleBonuses {
		if containsAny(cv, tb.Terms) && containsAny(title, tb.Terms) {
			score += tb.Bonus
		}
	}

	cvWords := wordPadded(cv)
	company := wordPadded(Normalize(l.Company))
	for _, cb := range e.tables.Companies {
		w := " " + cb.Name + " "
		if strings.Contains(cvWords, w) && strings.Contains(company, w) {
			score += cb.Bonus
		}
	}

	return clampRound(score, e.cfg.Floor, e.cfg.Ceiling)
}

func (e *Engine) locationBonus(location string, prefs []string) float64 {
	if len(prefs) == 0 {
		return 0
	}

	total := 0.0
	for _, p := range prefs {
		switch {
		case p == "":
			continue
		case p == "worldwide" || p == "global":
			total += e.cfg.WorldwideBonus
		case strings.Contains(location, p):
			total += e.cfg.ExactLocationBonus
		default:
			if parts, ok := e.tables.Regions[p]; ok && containsAny(location, parts) {
				total += e.cfg.RegionLocationBonus
			}
		}
	}
	return math.Min(total, e.cfg.LocationCap)
}

// scoreDegraded ignores the CV entirely; the job title alone picks a bucket.
func (e *Engine) scoreDegraded(l job.Listing) float64 {
	title := Normalize(l.Title)
	score := e.tables.FallbackScore
	for _, b := range e.tables.Buckets {
		hits := 0
		for _, t := range b.Terms {
			if strings.Contains(title, t) {
				hits++
			}
		}
		if hits > 0 {
			score = math.Min(b.Max, b.Base+b.Step*float64(hits))
			break
		}
	}
	return clampRound(score, e.cfg.DegradedFloor, e.cfg.Ceiling)
}

// Normalize lower-cases s, strips diacritics and collapses whitespace.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func wordPadded(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

func clampRound(v, floor, ceiling float64) float64 {
	if v < floor {
		v = floor
	}
	if v > ceiling {
		v = ceiling
	}
	return math.Round(v*100) / 100
}
