package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petromatch/internal/domain/job"
)

func TestBrowserFetcher_StartFailureIsNotCached(t *testing.T) {
	f := NewBrowserFetcher(BrowserFetcherConfig{
		Headless: true,
		Timeout:  5 * time.Second,
		ExecPath: "/nonexistent/chrome",
		Logger:   log.New(io.Discard, "", 0),
	})
	defer f.Close()

	for i := 0; i < 2; i++ {
		_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/jobs")
		require.Error(t, err)
		assert.True(t, IsFetchError(err))
		assert.Nil(t, f.browserCtx)
	}
}

// Needs a local Chrome; set PETROMATCH_CHROME_TESTS=1 to run.
func TestBrowserFetcher_LoginCookieSurvivesIntoFetch(t *testing.T) {
	if os.Getenv("PETROMATCH_CHROME_TESTS") == "" {
		t.Skip("PETROMATCH_CHROME_TESTS not set")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if r.FormValue("email") == "me@example.com" && r.FormValue("pass") == "s3cret" {
				http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			}
			_, _ = w.Write([]byte("<html><body>welcome</body></html>"))
			return
		}
		_, _ = w.Write([]byte(`<html><body><form method="post" action="/login">
<input id="email" name="email"><input id="pass" name="pass" type="password">
<button id="go" type="submit">go</button></form></body></html>`))
	})
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil && c.Value == "abc" {
			_, _ = w.Write([]byte("<html><body>members only</body></html>"))
			return
		}
		_, _ = w.Write([]byte("<html><body>login required</body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewBrowserFetcher(BrowserFetcherConfig{
		Headless: true,
		Timeout:  20 * time.Second,
		ExecPath: os.Getenv("SCRAPER_BROWSER_EXEC_PATH"),
		Logger:   log.New(io.Discard, "", 0),
	})
	defer f.Close()

	err := f.Login(context.Background(), job.Login{
		URL:              srv.URL + "/login",
		UsernameSelector: "#email",
		PasswordSelector: "#pass",
		SubmitSelector:   "#go",
		Username:         "me@example.com",
		Password:         "s3cret",
	})
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), srv.URL+"/jobs")
	require.NoError(t, err)
	assert.Contains(t, string(body), "members only")
}
