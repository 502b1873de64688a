package avatar

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"namecard/internal/domain"
	"namecard/internal/logging"
	"namecard/internal/metrics"
)

var errTooLarge = errors.New("avatar exceeds size limit")

const maxRedirects = 3

type Config struct {
	Timeout      time.Duration
	MaxBytes     int64
	AllowedHosts []string
	AllowPrivate bool
}

type httpFetcher struct {
	client   *resty.Client
	guard    *guard
	maxBytes int64
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewHTTPFetcher returns an AvatarFetcher that makes a single GET per call.
// Avatar URLs come from callers, so the client only reaches http(s) hosts
// allowed by cfg and never dials loopback or private addresses unless
// cfg.AllowPrivate is set.
func NewHTTPFetcher(cfg Config, logger *zap.Logger, m *metrics.Metrics) domain.AvatarFetcher {
	g := newGuard(cfg)

	client := resty.New().
		SetTransport(g.transport()).
		SetRedirectPolicy(
			resty.FlexibleRedirectPolicy(maxRedirects),
			resty.RedirectPolicyFunc(g.checkRedirect),
		).
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &httpFetcher{
		client:   client,
		guard:    g,
		maxBytes: cfg.MaxBytes,
		logger:   logging.OrNop(logger),
		metrics:  m,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) (string, bool) {
	if rawURL == "" {
		f.metrics.AvatarFetched(metrics.ResultNoAvatar, 0)
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err == nil {
		err = f.guard.checkURL(u)
	}
	if err != nil {
		f.metrics.AvatarFetched(metrics.ResultRejected, 0)
		f.logger.Warn("avatar url rejected, exporting without photo",
			zap.String("url", rawURL), zap.Error(err))
		return "", false
	}

	start := time.Now()
	data, err := f.download(ctx, u.String())
	if err != nil {
		f.metrics.AvatarFetched(metrics.ResultFailed, time.Since(start))
		f.logger.Warn("avatar fetch failed, exporting without photo",
			zap.String("url", rawURL), zap.Error(err))
		return "", false
	}

	f.metrics.AvatarFetched(metrics.ResultOK, time.Since(start))
	return base64.StdEncoding.EncodeToString(data), true
}

func (f *httpFetcher) download(ctx context.Context, target string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(target)
	if err != nil {
		return nil, err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	r := io.Reader(body)
	if f.maxBytes > 0 {
		r = io.LimitReader(body, f.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, errTooLarge
	}
	if len(data) == 0 {
		return nil, errors.New("empty avatar body")
	}
	return data, nil
}
