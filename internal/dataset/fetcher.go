package dataset

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"geo-legend/internal/logger"
	"geo-legend/internal/metrics"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
)

// Fetcher：获取边界 GeoJSON 原始字节
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPFetcher：按 URL 拉取远端边界数据；网络错误与 5xx 按固定间隔重试，4xx 不重试
type HTTPFetcher struct {
	URL      string
	Client   *http.Client
	Attempts uint
	Delay    time.Duration
}

// NewHTTPFetcher：insecure 为 true 时跳过证书校验，仅用于受信任的内网镜像
func NewHTTPFetcher(url string, timeout time.Duration, insecure bool) *HTTPFetcher {
	c := &http.Client{Timeout: timeout}
	if insecure {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		c.Transport = tr
	}
	return &HTTPFetcher{URL: url, Client: c, Attempts: 3, Delay: time.Second}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	attempts := f.Attempts
	if attempts == 0 {
		attempts = 1
	}
	t0 := time.Now()
	b, err := retry.DoWithData(
		func() ([]byte, error) { return f.fetchOnce(ctx) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(f.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.L().Warn("boundary_fetch_retry", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	dur := time.Since(t0).Milliseconds()
	metrics.BoundaryFetchDurationMs.Observe(float64(dur))
	logger.L().Debug("boundary_fetch_done", "bytes", len(b), "duration_ms", dur)
	return b, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger.L().Debug("boundary_fetch_begin", "url", f.URL)
	resp, err := client.Do(req)
	if err != nil {
		if isCertError(err) {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, f.URL)
		if resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// isCertError：证书校验失败重试也不会成功
func isCertError(err error) bool {
	var (
		verr *tls.CertificateVerificationError
		uerr x509.UnknownAuthorityError
		herr x509.HostnameError
		ierr x509.CertificateInvalidError
	)
	return errors.As(err, &verr) || errors.As(err, &uerr) || errors.As(err, &herr) || errors.As(err, &ierr)
}

// RedisFetcher：以 Redis 缓存边界原始字节，未命中时回源并回写
// 约束：Client 为 nil 时直接透传；Redis 异常不阻断回源
type RedisFetcher struct {
	Next   Fetcher
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

func (f *RedisFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f.Client == nil {
		return f.Next.Fetch(ctx)
	}
	b, err := f.Client.Get(ctx, f.Key).Bytes()
	if err == nil && len(b) > 0 {
		metrics.BoundaryCacheHitsTotal.Inc()
		logger.L().Debug("boundary_cache_hit", "key", f.Key, "bytes", len(b))
		return b, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.L().Error("boundary_cache_get_error", "err", err)
	}
	metrics.BoundaryCacheMissesTotal.Inc()
	b, err = f.Next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.Client.Set(ctx, f.Key, b, f.TTL).Err(); err != nil {
		logger.L().Error("boundary_cache_set_error", "err", err)
	}
	return b, nil
}

// BoundaryCacheKey：按 URL 区分缓存键
func BoundaryCacheKey(url string) string { return "geolegend:boundary:" + url }
