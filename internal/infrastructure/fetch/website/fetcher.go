package website

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/resilience"
)

const (
	defaultMaxBytes  = 1 << 20
	defaultMaxChars  = 8000
	defaultUserAgent = "Mozilla/5.0 (compatible; ProspectRadar/1.0)"
)

type Options struct {
	Scheme    string
	UserAgent string
	MaxBytes  int64
	MaxChars  int
	Timeout   time.Duration
}

// Fetcher downloads a company homepage and reduces it to visible text.
type Fetcher struct {
	scheme     string
	userAgent  string
	maxBytes   int64
	maxChars   int
	httpClient *http.Client
}

func New(opts Options) *Fetcher {
	if opts.Scheme == "" {
		opts.Scheme = "https"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultMaxChars
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Fetcher{
		scheme:     opts.Scheme,
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
		maxChars:   opts.MaxChars,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

func (f *Fetcher) FetchText(ctx context.Context, siteDomain string) (string, error) {
	siteDomain = strings.TrimSpace(siteDomain)
	if siteDomain == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "fetch site", errors.New("domain is empty"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.scheme+"://"+siteDomain+"/", nil)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "fetch site", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", classifyFetchError(siteDomain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &resilience.HTTPStatusError{
			Service:    "website",
			Operation:  siteDomain,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("parse %s html: %w", siteDomain, err)
	}
	return visibleText(doc, f.maxChars), nil
}

// visibleText keeps the title, meta description and body text with scripts,
// styles and page chrome removed.
func visibleText(doc *goquery.Document, maxChars int) string {
	doc.Find("script, style, noscript, svg, iframe, template, nav, footer, header").Remove()

	parts := make([]string, 0, 3)
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	if description, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && strings.TrimSpace(description) != "" {
		parts = append(parts, strings.TrimSpace(description))
	}
	parts = append(parts, doc.Find("body").Text())

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	runes := []rune(text)
	if len(runes) > maxChars {
		text = string(runes[:maxChars])
	}
	return text
}

func classifyFetchError(siteDomain string, err error) error {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return domain.WrapError(domain.ErrSiteDNS, "fetch "+siteDomain, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return domain.WrapError(domain.ErrSiteRefused, "fetch "+siteDomain, err)
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return domain.WrapError(domain.ErrSiteTimeout, "fetch "+siteDomain, err)
	default:
		return fmt.Errorf("fetch %s: %w", siteDomain, err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
