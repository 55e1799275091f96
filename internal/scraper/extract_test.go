package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petromatch/internal/domain/job"
)

const declarativePage = `<html><body>
<div class="job">
  <h2 class="title"><a href="/jobs/101">Reservoir Engineer</a></h2>
  <span class="company">Equinor</span>
  <span class="loc">Stavanger, Norway</span>
  <p class="desc">Model   reservoirs.</p>
</div>
<div class="job">
  <h2 class="title"></h2>
  <span class="company">Nobody</span>
</div>
<div class="job">
  <h2 class="title"><a href="javascript:void(0)">Pipeline Inspector</a></h2>
</div>
<div class="job">
  <h2 class="title"><a href="https://other.example.com/x?id=9">Drilling Supervisor</a></h2>
  <a class="apply" href="apply/9">Apply</a>
</div>
</body></html>`

func declarativeBoard() job.Board {
	return job.Board{
		ID:      1,
		BaseURL: "https://jobs.example.com",
		Selectors: job.Selectors{
			JobContainer: "div.job",
			Title:        "h2.title",
			Company:      "span.company",
			Location:     "span.loc",
			Description:  "p.desc",
		},
	}
}

func TestExtract_FieldsAndSkipReasons(t *testing.T) {
	items, err := Extract([]byte(declarativePage), "https://jobs.example.com/search?page=1", declarativeBoard())
	require.NoError(t, err)
	require.Len(t, items, 4)

	first := items[0]
	require.True(t, first.OK())
	assert.Equal(t, RawJobRecord{
		Title:       "Reservoir Engineer",
		Company:     "Equinor",
		Location:    "Stavanger, Norway",
		URL:         "https://jobs.example.com/jobs/101",
		Description: "Model reservoirs.",
	}, first.Record)

	assert.Equal(t, SkipMissingTitle, items[1].Skipped)

	// non-http link falls back to the board's jobs page
	require.True(t, items[2].OK())
	assert.Equal(t, "https://jobs.example.com", items[2].Record.URL)
	assert.Empty(t, items[2].Record.Company)
	assert.Empty(t, items[2].Record.Location)
	assert.Empty(t, items[2].Record.Description)

	assert.Equal(t, "https://other.example.com/x?id=9", items[3].Record.URL)
}

func TestExtract_URLSelectorTakesPrecedence(t *testing.T) {
	b := declarativeBoard()
	b.Selectors.URL = "a.apply"

	items, err := Extract([]byte(declarativePage), "https://jobs.example.com/search", b)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "https://jobs.example.com/apply/9", items[3].Record.URL)
	// url selector configured but absent: jobs page
	assert.Equal(t, "https://jobs.example.com", items[0].Record.URL)
}

func TestExtract_MissingLinkPointsAtFirstJobsPage(t *testing.T) {
	b := declarativeBoard()
	b.Selectors.JobsPageURL = "https://jobs.example.com/search?page={page}"

	items, err := Extract([]byte(declarativePage), "https://jobs.example.com/search?page=3", b)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "https://jobs.example.com/search?page=1", items[2].Record.URL)
	assert.Equal(t, "https://jobs.example.com/jobs/101", items[0].Record.URL)
}

func TestExtract_NoContainersIsEmpty(t *testing.T) {
	items, err := Extract([]byte(`<html><body><p>No results</p></body></html>`), "https://jobs.example.com", declarativeBoard())
	require.NoError(t, err)
	assert.Empty(t, items)

	b := declarativeBoard()
	b.Selectors.JobContainer = ""
	items, err = Extract([]byte(declarativePage), "https://jobs.example.com", b)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGuardItem_RecoversPanic(t *testing.T) {
	res := guardItem(func() ItemResult {
		var m map[string]int
		m["boom"] = 1
		return Ok(RawJobRecord{Title: "never"})
	})
	assert.False(t, res.OK())
	assert.Equal(t, SkipPanic, res.Skipped)
	assert.NotEmpty(t, res.Detail)
}

func TestResolveURL(t *testing.T) {
	const base = "https://www.rigzone.com"
	const page = "https://www.rigzone.com/oil/jobs/search/?sk=nes&page=3"
	const jobs = "https://www.rigzone.com/oil/jobs/search/?sk=nes"

	cases := []struct {
		raw  string
		want string
	}{
		{"/oil/jobs/postings/1_drilling", "https://www.rigzone.com/oil/jobs/postings/1_drilling"},
		{"postings/2", "https://www.rigzone.com/postings/2"},
		{"https://example.org/a", "https://example.org/a"},
		{"", jobs},
		{"#", jobs},
		{"mailto:hr@example.org", jobs},
		{"http://[::1", jobs},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveURL(base, page, jobs, tc.raw), "raw=%q", tc.raw)
	}

	// unusable base: resolve against the page instead
	assert.Equal(t, "https://www.rigzone.com/oil/jobs/search/x", ResolveURL("", page, jobs, "x"))
}
