// Package nominatim is a small OpenStreetMap Nominatim client used to fill in
// venue addresses and coordinates.
package nominatim

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"venue_booking/internal/adapters/observability"
	"venue_booking/internal/domain"
)

const maxAttempts = 4

var (
	ErrNotFound  = errors.New("nominatim: no result")
	ErrForbidden = errors.New("nominatim: forbidden")
)

type Client struct {
	base string
	ua   string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client. The public Nominatim usage policy allows one request
// per second and requires an identifying User-Agent.
func New(base, userAgent string, rps float64) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("nominatim: base URL is required")
	}
	if userAgent == "" {
		return nil, fmt.Errorf("nominatim: user agent is required")
	}
	if rps <= 0 {
		rps = 1
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		ua:   userAgent,
		hc:   &http.Client{Timeout: 10 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

type searchHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// ReverseGeocode returns the display name of the place at lat/lon.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var out reverseResponse
	if err := c.get(ctx, "reverse", c.base+"/reverse?"+q.Encode(), &out); err != nil {
		return "", err
	}
	// Nominatim answers 200 with {"error": "..."} for points in the sea
	if out.Error != "" || strings.TrimSpace(out.DisplayName) == "" {
		return "", ErrNotFound
	}
	return out.DisplayName, nil
}

// Search returns the coordinates of the best match for a free-form query.
func (c *Client) Search(ctx context.Context, query string) (domain.Coords, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Coords{}, ErrNotFound
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", query)

	var hits []searchHit
	if err := c.get(ctx, "search", c.base+"/search?"+q.Encode(), &hits); err != nil {
		return domain.Coords{}, err
	}
	if len(hits) == 0 {
		return domain.Coords{}, ErrNotFound
	}
	lat, err1 := strconv.ParseFloat(hits[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(hits[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return domain.Coords{}, fmt.Errorf("nominatim: bad coordinates %q,%q", hits[0].Lat, hits[0].Lon)
	}
	return domain.Coords{Lat: lat, Lon: lon}, nil
}

// get performs a rate limited GET, retrying 429 and transient 5xx responses
// and honoring Retry-After.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.ua)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("nominatim", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("nominatim", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("nominatim: decode %s: %w", endpoint, err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("nominatim: remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("nominatim: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Zero if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 250ms per attempt with up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 250 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
