package job

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	AdapterDeclarative = "declarative"
	AdapterRigzone     = "rigzone"

	defaultPageParam = "page"
	pagePlaceholder  = "{page}"
)

// Board is a configured source of job listings. Selectors is decoded from the
// selectors_json column.
type Board struct {
	ID            int64
	Name          string
	BaseURL       string
	LoginRequired bool
	Selectors     Selectors
	CreatedAt     time.Time
}

type Selectors struct {
	Adapter       string `json:"adapter,omitempty" yaml:"adapter"`
	JobContainer  string `json:"job_container" yaml:"job_container"`
	Title         string `json:"title_selector" yaml:"title_selector"`
	Company       string `json:"company_selector" yaml:"company_selector"`
	Location      string `json:"location_selector" yaml:"location_selector"`
	URL           string `json:"url_selector" yaml:"url_selector"`
	Description   string `json:"description_selector" yaml:"description_selector"`
	JobsPageURL   string `json:"jobs_page_url,omitempty" yaml:"jobs_page_url"`
	PageParam     string `json:"page_param,omitempty" yaml:"page_param"`
	MaxPages      int    `json:"max_pages,omitempty" yaml:"max_pages"`
	UsePlaywright bool   `json:"use_playwright" yaml:"use_playwright"`
	Login         *Login `json:"login,omitempty" yaml:"login"`
}

// Login describes how to bootstrap an authenticated session. Form fields are
// used by the plain HTTP strategy, CSS selectors by the browser strategy.
type Login struct {
	URL              string `json:"login_url" yaml:"login_url"`
	UsernameField    string `json:"username_field,omitempty" yaml:"username_field"`
	PasswordField    string `json:"password_field,omitempty" yaml:"password_field"`
	UsernameSelector string `json:"username_selector,omitempty" yaml:"username_selector"`
	PasswordSelector string `json:"password_selector,omitempty" yaml:"password_selector"`
	SubmitSelector   string `json:"submit_selector,omitempty" yaml:"submit_selector"`
	Username         string `json:"username,omitempty" yaml:"username"`
	Password         string `json:"password,omitempty" yaml:"password"`
}

func ParseSelectors(raw []byte) (Selectors, error) {
	var s Selectors
	if len(strings.TrimSpace(string(raw))) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Selectors{}, fmt.Errorf("decode selectors_json: %w", err)
	}
	return s, nil
}

func (s Selectors) JSON() ([]byte, error) {
	return json.Marshal(s)
}

func (s Selectors) AdapterName() string {
	name := strings.ToLower(strings.TrimSpace(s.Adapter))
	if name == "" {
		return AdapterDeclarative
	}
	return name
}

// EntryURL is the first listings page: jobs_page_url when set, else base_url.
func (b Board) EntryURL() string {
	if u := strings.TrimSpace(b.Selectors.JobsPageURL); u != "" {
		return u
	}
	return strings.TrimSpace(b.BaseURL)
}

// PageURL returns the URL of the 1-based page. A {page} placeholder in the
// entry URL is substituted; otherwise page_param is set on the query string
// for pages after the first.
func (b Board) PageURL(page int) (string, error) {
	entry := b.EntryURL()
	if entry == "" {
		return "", fmt.Errorf("board %d has no jobs page url", b.ID)
	}
	if page < 1 {
		page = 1
	}
	if strings.Contains(entry, pagePlaceholder) {
		return strings.ReplaceAll(entry, pagePlaceholder, strconv.Itoa(page)), nil
	}
	if page == 1 {
		return entry, nil
	}

	u, err := url.Parse(entry)
	if err != nil {
		return "", fmt.Errorf("parse jobs page url: %w", err)
	}
	param := strings.TrimSpace(b.Selectors.PageParam)
	if param == "" {
		param = defaultPageParam
	}
	q := u.Query()
	q.Set(param, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RequiresLogin reports whether a session must be bootstrapped before fetching.
func (b Board) RequiresLogin() bool {
	return b.LoginRequired && b.Selectors.Login != nil && strings.TrimSpace(b.Selectors.Login.URL) != ""
}
