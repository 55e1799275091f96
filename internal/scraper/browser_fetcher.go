package scraper

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"petromatch/internal/domain/job"
)

type BrowserFetcherConfig struct {
	UserAgent string
	Headless  bool
	Timeout   time.Duration
	// WaitSelector, when set, is awaited after the page is ready so that
	// client-rendered job containers are present in the snapshot.
	WaitSelector string
	// ExecPath overrides the Chrome binary chromedp looks up on PATH.
	ExecPath string
	Logger   *log.Logger
}

// BrowserFetcher drives a headless Chrome through chromedp. The browser is
// started on first use and shared by every tab opened afterwards, so the
// session cookies set by Login survive into Fetch.
type BrowserFetcher struct {
	cfg BrowserFetcherConfig

	mu            sync.Mutex
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

func NewBrowserFetcher(cfg BrowserFetcherConfig) *BrowserFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &BrowserFetcher{cfg: cfg}
}

// browser returns the shared browser context, launching Chrome on first use.
// The browser is started here, outside any tab, so that cancelling a tab
// never takes the browser and its cookie jar down with it.
func (f *BrowserFetcher) browser() (context.Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browserCtx != nil {
		return f.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if f.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.cfg.UserAgent))
	}
	if f.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		f.cfg.Logger.Printf("Scraper browser start failed | error=%v", err)
		return nil, err
	}
	f.browserCtx = browserCtx
	f.allocCancel = allocCancel
	f.browserCancel = browserCancel
	return browserCtx, nil
}

// tab opens a new tab bounded by the fetch timeout and by ctx.
func (f *BrowserFetcher) tab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	browserCtx, err := f.browser()
	if err != nil {
		return nil, nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	runCtx, runCancel := context.WithTimeout(tabCtx, f.cfg.Timeout)

	stop := context.AfterFunc(ctx, runCancel)
	return runCtx, func() {
		stop()
		runCancel()
		tabCancel()
	}, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runCtx, cancel, err := f.tab(ctx)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer cancel()

	err = chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if sel := strings.TrimSpace(f.cfg.WaitSelector); sel != "" {
		waitCtx, waitCancel := context.WithTimeout(runCtx, 10*time.Second)
		if err := chromedp.Run(waitCtx, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
			f.cfg.Logger.Printf("Scraper browser wait timed out | url=%s selector=%s", url, sel)
		}
		waitCancel()
	}

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return []byte(html), nil
}

func (f *BrowserFetcher) Login(ctx context.Context, l job.Login) error {
	if strings.TrimSpace(l.URL) == "" || l.UsernameSelector == "" || l.PasswordSelector == "" || l.SubmitSelector == "" {
		return ErrLoginIncomplete
	}
	runCtx, cancel, err := f.tab(ctx)
	if err != nil {
		return &FetchError{URL: l.URL, Err: err}
	}
	defer cancel()

	err = chromedp.Run(runCtx,
		chromedp.Navigate(l.URL),
		chromedp.WaitVisible(l.UsernameSelector, chromedp.ByQuery),
		chromedp.SendKeys(l.UsernameSelector, l.Username, chromedp.ByQuery),
		chromedp.SendKeys(l.PasswordSelector, l.Password, chromedp.ByQuery),
		chromedp.Click(l.SubmitSelector, chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
	)
	if err != nil {
		return &FetchError{URL: l.URL, Err: err}
	}
	f.cfg.Logger.Printf("Scraper browser login ok | host=%s", hostFromURL(l.URL))
	return nil
}

func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browserCancel != nil {
		f.browserCancel()
	}
	if f.allocCancel != nil {
		f.allocCancel()
	}
	f.browserCtx = nil
	f.browserCancel = nil
	f.allocCancel = nil
	return nil
}
