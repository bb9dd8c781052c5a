package fetcher

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP fetcher. Timeout bounds connecting and
// waiting for response headers only; streaming the body is not time limited,
// so cancel ctx to abandon a download.
type HTTPOptions struct {
	UserAgent  string
	Timeout    time.Duration
	RatePerSec float64
}

// HTTPFetcher implements Fetcher using net/http with per-host rate limiting.
// Requests are never retried.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
	log    *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions, log *zap.Logger) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "mosscheck/1.0"
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if log == nil {
		log = zap.L()
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: opts.Timeout}).DialContext,
		TLSHandshakeTimeout:   opts.Timeout,
		ResponseHeaderTimeout: opts.Timeout,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       20,
		IdleConnTimeout:       90 * time.Second,
	}
	return &HTTPFetcher{
		client:   &http.Client{Transport: transport},
		opts:     opts,
		log:      log.With(zap.String("component", "fetcher")),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		burst := max(int(f.opts.RatePerSec), 1)
		lim = rate.NewLimiter(rate.Limit(f.opts.RatePerSec), burst)
		f.limiters[host] = lim
	}
	return lim
}

func (f *HTTPFetcher) download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	if err := f.limiterFor(rawURL).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limiter wait")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "download")
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, eris.Errorf("download: unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	return resp.Body, nil
}

// FetchReport streams rawURL into destDir/name. The body is written to a
// temporary file in destDir and renamed into place only after it has been
// fully written and closed.
func (f *HTTPFetcher) FetchReport(ctx context.Context, rawURL, destDir, name string) (int64, error) {
	log := f.log.With(zap.String("url", rawURL), zap.String("name", name))
	log.Info("downloading report")

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "fetcher: create %s", destDir)
	}

	body, err := f.download(ctx, rawURL)
	if err != nil {
		return 0, eris.Wrap(err, "fetcher")
	}
	defer body.Close() //nolint:errcheck

	tmp, err := os.CreateTemp(destDir, "."+name+".*.part")
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create temp file")
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, body)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return n, eris.Wrap(err, "fetcher: write report")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return n, eris.Wrap(err, "fetcher: flush report")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return n, eris.Wrap(err, "fetcher: close report")
	}

	dest := filepath.Join(destDir, name)
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return n, eris.Wrapf(err, "fetcher: move report to %s", dest)
	}

	log.Info("report saved", zap.String("path", dest), zap.Int64("bytes", n))
	return n, nil
}
