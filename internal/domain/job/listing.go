package job

import (
	"strings"
	"time"
)

const (
	DefaultCompany     = "Unknown Company"
	DefaultLocation    = "Location not specified"
	DefaultDescription = "No description provided"
)

// Listing is a job posting persisted for exactly one scrape task.
type Listing struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	BoardID     int64     `json:"board_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// WithDefaults trims every field and fills empty company, location and
// description with their placeholders.
func (l Listing) WithDefaults() Listing {
	l.Title = strings.TrimSpace(l.Title)
	l.Company = pick(l.Company, DefaultCompany)
	l.Location = pick(l.Location, DefaultLocation)
	l.URL = strings.TrimSpace(l.URL)
	l.Description = pick(l.Description, DefaultDescription)
	return l
}

func pick(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
