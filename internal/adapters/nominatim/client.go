// Package nominatim implements ports.Geocoder against an OpenStreetMap
// Nominatim server.
package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"

	"github.com/samirrijal/siara/internal/core/domain"
)

// Client talks to /search and /reverse. It does no rate limiting or caching;
// GeocodeService wraps it with both.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *fasthttp.Client
}

// New creates a client. Nominatim's usage policy requires an identifying
// User-Agent.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   timeout,
		http: &fasthttp.Client{
			Name:                userAgent,
			MaxConnsPerHost:     2,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
}

// Forward resolves free-form address text to the best match.
func (c *Client) Forward(ctx context.Context, address string) (domain.GeoPoint, bool, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("q", address)

	js, err := c.get(ctx, "/search?"+q.Encode())
	if err != nil {
		return domain.GeoPoint{}, false, err
	}
	if !gjson.Get(js, "#").Exists() || gjson.Get(js, "#").Int() == 0 {
		return domain.GeoPoint{}, false, nil
	}

	// Nominatim encodes coordinates as strings.
	lat, err1 := strconv.ParseFloat(gjson.Get(js, "0.lat").String(), 64)
	lon, err2 := strconv.ParseFloat(gjson.Get(js, "0.lon").String(), 64)
	if err1 != nil || err2 != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("nominatim: bad coordinates in search result")
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, true, nil
}

// Reverse resolves a coordinate to a display address.
func (c *Client) Reverse(ctx context.Context, p domain.GeoPoint) (string, bool, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))

	js, err := c.get(ctx, "/reverse?"+q.Encode())
	if err != nil {
		return "", false, err
	}
	// Points in the sea come back as 200 {"error":"Unable to geocode"}.
	if gjson.Get(js, "error").Exists() {
		return "", false, nil
	}
	name := gjson.Get(js, "display_name").String()
	if name == "" {
		return "", false, nil
	}
	return name, true, nil
}

func (c *Client) get(ctx context.Context, pathAndQuery string) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + pathAndQuery)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(c.userAgent)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return "", fmt.Errorf("nominatim: %w", context.DeadlineExceeded)
		}
		return "", fmt.Errorf("nominatim: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("nominatim: HTTP status %d", resp.StatusCode())
	}

	js := string(resp.Body())
	if !gjson.Valid(js) {
		return "", fmt.Errorf("nominatim: invalid JSON")
	}
	return js, nil
}
