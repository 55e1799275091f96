package scraper

import (
	"net"
	"net/url"
	"strings"

	"petromatch/internal/domain/job"
)

// ResolveURL makes raw absolute against baseURL, or pageURL when baseURL is
// unusable. Empty, malformed or non-http(s) links resolve to fallback.
func ResolveURL(baseURL, pageURL, fallback, raw string) string {
	raw = strings.TrimSpace(raw)
	fallback = strings.TrimSpace(fallback)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return fallback
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	if ref.IsAbs() {
		if isHTTP(ref) {
			return ref.String()
		}
		return fallback
	}

	for _, b := range []string{baseURL, pageURL} {
		base, err := url.Parse(strings.TrimSpace(b))
		if err != nil || !isHTTP(base) {
			continue
		}
		return base.ResolveReference(ref).String()
	}
	return fallback
}

// jobsPageURL is where a listing without a usable link points: the board's
// first listings page.
func jobsPageURL(b job.Board) string {
	if u, err := b.PageURL(1); err == nil {
		return u
	}
	return b.EntryURL()
}

func isHTTP(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "http" || s == "https"
}

func hostFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := u.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
