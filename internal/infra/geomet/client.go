// Package geomet is the client for the Environment and Climate Change Canada
// GeoMet OGC API (https://api.weather.gc.ca). It covers the climate-stations,
// climate-daily and climate-hourly collections: queryable discovery, match
// counting, and paged item fetches.
package geomet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/CChelak/dan-lab/internal/domain"
)

// Collection names served by the API.
const (
	CollectionStations = "climate-stations"
	CollectionDaily    = "climate-daily"
	CollectionHourly   = "climate-hourly"
)

const defaultBaseURL = "https://api.weather.gc.ca"
const defaultPageLimit = 10000
const defaultRetryWait = 60 * time.Second

type Client struct {
	baseURL   string
	http      *http.Client
	log       *slog.Logger
	pageLimit int
	retryWait time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// WithRetryWait sets the pause before a failed page is re-requested.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		http:      httpClient,
		log:       slog.Default(),
		pageLimit: defaultPageLimit,
		retryWait: defaultRetryWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// itemsURL returns the items endpoint for a collection.
func (c *Client) itemsURL(collection string) string {
	return c.baseURL + "/collections/" + collection + "/items"
}

// getJSON issues a GET and decodes the body as loose JSON.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values) (any, error) {
	body, err := c.get(ctx, rawURL, params)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &domain.OpError{
			Op:   "geomet.decode",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  err,
		}
	}
	return doc, nil
}

// get issues a GET request and returns the raw body, turning transport
// failures and non-200 statuses into request errors.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	full := rawURL
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "geomet.get",
			Kind: domain.KindInvalidInput,
			Path: rawURL,
			Err:  err,
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "geomet.get",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "geomet.read",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.OpError{
			Op:   "geomet.get",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, truncateForLog(body)),
		}
	}

	return body, nil
}

// Queryables returns the property names that can be used in queries against
// the given collection.
func (c *Client) Queryables(ctx context.Context, collection string) ([]string, error) {
	u := c.baseURL + "/collections/" + collection + "/queryables"
	params := url.Values{"f": {"json"}}

	doc, err := c.getJSON(ctx, u, params)
	if err != nil {
		return nil, err
	}

	raw, err := jsonpath.Get("$.properties.*.title", doc)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "geomet.queryables",
			Kind: domain.KindRequest,
			Path: u,
			Err:  err,
		}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &domain.OpError{
			Op:   "geomet.queryables",
			Kind: domain.KindRequest,
			Path: u,
			Err:  fmt.Errorf("unexpected queryables shape %T", raw),
		}
	}

	names := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

// UnqueryableProperties returns the subset of properties that the collection
// does not accept in queries. Callers typically warn and drop these rather
// than fail.
func (c *Client) UnqueryableProperties(ctx context.Context, collection string, properties []string) ([]string, error) {
	allowed, err := c.Queryables(ctx, collection)
	if err != nil {
		return nil, err
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = struct{}{}
	}

	var out []string
	for _, p := range properties {
		if _, ok := allowedSet[p]; !ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// filterQueryable drops properties the collection cannot query, logging what
// it removed. Failures to reach the queryables endpoint leave the list as-is.
func (c *Client) filterQueryable(ctx context.Context, collection string, properties []string) []string {
	if properties == nil {
		return nil
	}
	unq, err := c.UnqueryableProperties(ctx, collection, properties)
	if err != nil {
		c.log.Warn("geomet.queryables_unavailable", "collection", collection, "err", err)
		return properties
	}
	if len(unq) == 0 {
		return properties
	}

	c.log.Warn("geomet.unqueryable_properties_dropped", "collection", collection, "dropped", unq)

	unqSet := make(map[string]struct{}, len(unq))
	for _, u := range unq {
		unqSet[u] = struct{}{}
	}
	kept := make([]string, 0, len(properties))
	for _, p := range properties {
		if _, ok := unqSet[p]; !ok {
			kept = append(kept, p)
		}
	}
	return kept
}

// NumberMatched asks how many items match the query by re-issuing it as a
// one-item JSON request and reading numberMatched. Any failure is logged and
// reported as zero matches.
func (c *Client) NumberMatched(ctx context.Context, itemsURL string, params url.Values) int {
	alt := cloneValues(params)
	alt.Set("f", "json")
	alt.Set("limit", "1")
	alt.Set("offset", "0")

	doc, err := c.getJSON(ctx, itemsURL, alt)
	if err != nil {
		c.log.Error("geomet.number_matched", "url", itemsURL, "err", err)
		return 0
	}

	raw, err := jsonpath.Get("$.numberMatched", doc)
	if err != nil {
		c.log.Error("geomet.number_matched", "url", itemsURL, "err", "numberMatched not found in response")
		return 0
	}

	n, ok := raw.(float64)
	if !ok {
		c.log.Error("geomet.number_matched", "url", itemsURL, "err", fmt.Sprintf("numberMatched has type %T", raw))
		return 0
	}
	return int(n)
}

// wait sleeps for the retry interval unless the context ends first.
func (c *Client) wait(ctx context.Context) error {
	t := time.NewTimer(c.retryWait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cloneValues(in url.Values) url.Values {
	out := url.Values{}
	for k, vs := range in {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func truncateForLog(b []byte) string {
	const maxLen = 512
	if len(b) > maxLen {
		return string(b[:maxLen]) + "..."
	}
	return string(b)
}
