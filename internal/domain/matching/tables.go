package matching

type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryExperience Category = "experience"
	CategoryLocation   Category = "location"
)

type Keyword struct {
	Term     string
	Weight   float64
	Category Category
}

// TitleBonus applies when any of Terms appears in both the CV and the job title.
type TitleBonus struct {
	Terms []string
	Bonus float64
}

// CompanyBonus applies when Name appears as a whole word in both the CV and
// the job's company field.
type CompanyBonus struct {
	Name  string
	Bonus float64
}

// Bucket scores a placeholder CV from the job title alone:
// min(Max, Base + Step*hits) when at least one of Terms hits.
type Bucket struct {
	Name  string
	Terms []string
	Base  float64
	Step  float64
	Max   float64
}

// Tables is the single keyword configuration shared by every scoring path.
type Tables struct {
	Keywords      []Keyword
	TitleBonuses  []TitleBonus
	Companies     []CompanyBonus
	Regions       map[string][]string
	Buckets       []Bucket
	FallbackScore float64
}

func DefaultTables() Tables {
	return Tables{
		Keywords:      defaultKeywords(),
		TitleBonuses:  defaultTitleBonuses(),
		Companies:     defaultCompanies(),
		Regions:       defaultRegions(),
		Buckets:       defaultBuckets(),
		FallbackScore: 0.4,
	}
}

func defaultKeywords() []Keyword {
	tech := func(term string, w float64) Keyword { return Keyword{Term: term, Weight: w, Category: CategoryTechnical} }
	exp := func(term string, w float64) Keyword { return Keyword{Term: term, Weight: w, Category: CategoryExperience} }
	loc := func(term string, w float64) Keyword { return Keyword{Term: term, Weight: w, Category: CategoryLocation} }

	return []Keyword{
		tech("petroleum", 0.15),
		tech("drilling", 0.15),
		tech("reservoir", 0.12),
		tech("geophysic", 0.12),
		tech("subsea", 0.10),
		tech("pipeline", 0.10),
		tech("offshore", 0.10),
		tech("petrel", 0.10),
		tech("lng", 0.08),
		tech("refinery", 0.08),
		tech("production", 0.08),
		tech("completion", 0.08),
		tech("commissioning", 0.08),
		tech("onshore", 0.06),
		tech("process", 0.06),
		tech("mechanical", 0.06),
		tech("electrical", 0.06),
		tech("chemical", 0.06),
		tech("instrumentation", 0.06),
		tech("hse", 0.06),
		tech("engineer", 0.05),
		tech("safety", 0.05),
		tech("simulation", 0.05),
		tech("modeling", 0.05),
		tech("matlab", 0.05),
		tech("autocad", 0.05),
		tech("python", 0.05),
		tech("troubleshooting", 0.04),
		tech("optimization", 0.04),

		exp("director", 0.18),
		exp("chief", 0.15),
		exp("head of", 0.12),
		exp("principal", 0.12),
		exp("manager", 0.12),
		exp("senior", 0.10),
		exp("superintendent", 0.10),
		exp("supervisor", 0.08),
		exp("lead", 0.08),
		exp("consultant", 0.06),
		exp("specialist", 0.05),
		exp("coordinator", 0.04),
		exp("graduate", 0.03),
		exp("junior", 0.02),
		exp("trainee", 0.02),

		loc("houston", 0.05),
		loc("aberdeen", 0.05),
		loc("stavanger", 0.05),
		loc("abu dhabi", 0.05),
		loc("north sea", 0.05),
		loc("gulf of mexico", 0.05),
		loc("dubai", 0.04),
		loc("doha", 0.04),
		loc("riyadh", 0.04),
		loc("calgary", 0.04),
		loc("perth", 0.04),
		loc("kuala lumpur", 0.04),
		loc("singapore", 0.04),
		loc("lagos", 0.03),
		loc("luanda", 0.03),
		loc("jakarta", 0.03),
		loc("london", 0.03),
	}
}

func defaultTitleBonuses() []TitleBonus {
	return []TitleBonus{
		{Terms: []string{"petroleum"}, Bonus: 0.1},
		{Terms: []string{"drilling"}, Bonus: 0.1},
		{Terms: []string{"process"}, Bonus: 0.1},
		{Terms: []string{"pipeline"}, Bonus: 0.1},
		{Terms: []string{"geophysics", "geophysicist"}, Bonus: 0.1},
	}
}

func defaultCompanies() []CompanyBonus {
	names := []string{
		"shell", "bp", "exxonmobil", "chevron", "totalenergies", "equinor",
		"conocophillips", "aramco", "schlumberger", "halliburton",
		"baker hughes", "eni", "petronas", "adnoc", "woodside",
	}
	out := make([]CompanyBonus, 0, len(names))
	for _, n := range names {
		out = append(out, CompanyBonus{Name: n, Bonus: 0.05})
	}
	return out
}

func defaultRegions() map[string][]string {
	return map[string][]string{
		"asia": {
			"asia", "china", "india", "japan", "korea", "singapore", "malaysia", "kuala lumpur",
			"indonesia", "jakarta", "thailand", "vietnam", "philippines", "brunei", "kazakhstan",
		},
		"middle east": {
			"middle east", "uae", "dubai", "abu dhabi", "saudi", "riyadh", "dhahran", "qatar",
			"doha", "oman", "kuwait", "bahrain", "iraq",
		},
		"africa": {
			"africa", "nigeria", "lagos", "angola", "luanda", "egypt", "cairo", "algeria", "libya",
			"ghana", "mozambique", "kenya", "tanzania",
		},
		"europe": {
			"europe", "uk", "united kingdom", "england", "scotland", "aberdeen", "london", "norway",
			"stavanger", "netherlands", "germany", "france", "italy", "spain", "denmark", "poland",
			"romania", "north sea",
		},
		"north america": {
			"north america", "usa", "united states", "canada", "mexico", "texas", "houston",
			"louisiana", "oklahoma", "north dakota", "alberta", "calgary", "gulf of mexico",
		},
		"south america": {
			"south america", "brazil", "argentina", "colombia", "venezuela", "peru", "chile",
			"ecuador", "guyana", "trinidad",
		},
		"australia": {
			"australia", "perth", "brisbane", "sydney", "melbourne", "darwin", "new zealand",
		},
	}
}

func defaultBuckets() []Bucket {
	return []Bucket{
		{
			Name:  "engineering",
			Terms: []string{"engineer", "technical", "drilling", "production", "petroleum", "mechanical", "electrical", "chemical"},
			Base:  0.6,
			Step:  0.05,
			Max:   0.85,
		},
		{
			Name:  "management",
			Terms: []string{"manager", "supervisor", "coordinator", "director", "lead"},
			Base:  0.5,
			Step:  0.05,
			Max:   0.75,
		},
		{
			Name:  "office",
			Terms: []string{"assistant", "secretary", "clerk", "administrative", "reception"},
			Base:  0.2,
			Step:  0,
			Max:   0.2,
		},
	}
}
