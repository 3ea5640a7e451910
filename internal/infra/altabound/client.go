// Package altabound queries the Alberta geospatial boundary service for
// municipal district and county outlines. The service is an ArcGIS MapServer
// layer, so paging works on record counts and result offsets rather than the
// OGC items protocol the climate API speaks.
package altabound

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/CChelak/dan-lab/internal/domain"
)

// DefaultLayerURL is the urban and rural municipality layer.
const DefaultLayerURL = "https://geospatial.alberta.ca/titan/rest/services/boundary/urban_and_rural_municipality/MapServer/114"

// NameField is the attribute carrying the municipal district name.
const NameField = "MD_NAME"

type Client struct {
	layerURL string
	http     *http.Client
	log      *slog.Logger
}

type Option func(*Client)

func WithLayerURL(u string) Option {
	return func(c *Client) { c.layerURL = u }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		layerURL: DefaultLayerURL,
		http:     httpClient,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query narrows a county fetch.
type Query struct {
	// Where is the attribute filter clause; empty means everything.
	Where string

	// Fields restricts the attributes returned. Nil or {"*"} requests all.
	Fields []string
}

// Fields returns the attribute names the layer can be queried by.
func (c *Client) Fields(ctx context.Context) ([]string, error) {
	doc, err := c.getJSON(ctx, c.layerURL, url.Values{"f": {"json"}})
	if err != nil {
		return nil, err
	}

	raw, err := jsonpath.Get("$.fields[*].name", doc)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "altabound.fields",
			Kind: domain.KindRequest,
			Path: c.layerURL,
			Err:  fmt.Errorf("response did not contain fields: %w", err),
		}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &domain.OpError{
			Op:   "altabound.fields",
			Kind: domain.KindRequest,
			Path: c.layerURL,
			Err:  fmt.Errorf("unexpected fields shape %T", raw),
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

// UnqueryableFields returns the requested fields the layer does not offer.
// Asking for everything ("*") skips the check.
func (c *Client) UnqueryableFields(ctx context.Context, fields []string) ([]string, error) {
	if len(fields) == 0 || (len(fields) == 1 && fields[0] == "*") {
		return nil, nil
	}

	allowed, err := c.Fields(ctx)
	if err != nil {
		return nil, err
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = struct{}{}
	}

	var out []string
	for _, f := range fields {
		if _, ok := allowedSet[f]; !ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Counties fetches the boundary polygons matching the query, paging by the
// layer's maxRecordCount.
func (c *Client) Counties(ctx context.Context, q Query) ([]domain.County, error) {
	where := q.Where
	if strings.TrimSpace(where) == "" {
		where = "1=1"
	}

	fields := q.Fields
	if unq, err := c.UnqueryableFields(ctx, fields); err == nil && len(unq) > 0 {
		c.log.Warn("altabound.unqueryable_fields_dropped", "dropped", unq)
		kept := make([]string, 0, len(fields))
		unqSet := make(map[string]struct{}, len(unq))
		for _, u := range unq {
			unqSet[u] = struct{}{}
		}
		for _, f := range fields {
			if _, ok := unqSet[f]; !ok {
				kept = append(kept, f)
			}
		}
		fields = kept
	}

	total, err := c.recordCount(ctx, where)
	if err != nil {
		return nil, err
	}
	step, err := c.maxRecordCount(ctx)
	if err != nil {
		return nil, err
	}

	outFields := "*"
	if len(fields) > 0 {
		outFields = strings.Join(fields, ",")
	}

	var counties []domain.County
	for offset := 0; offset < total; offset += step {
		params := url.Values{
			"where":             {where},
			"outFields":         {outFields},
			"outSr":             {"4326"},
			"f":                 {"geojson"},
			"orderByFields":     {"OBJECTID"},
			"returnGeometry":    {"true"},
			"resultRecordCount": {strconv.Itoa(step)},
			"resultOffset":      {strconv.Itoa(offset)},
		}

		body, err := c.get(ctx, c.layerURL+"/query", params)
		if err != nil {
			return nil, err
		}

		page, err := decodeCounties(body)
		if err != nil {
			return nil, err
		}
		counties = append(counties, page...)
	}

	return counties, nil
}

// AllCounties fetches every boundary polygon in the layer.
func (c *Client) AllCounties(ctx context.Context) ([]domain.County, error) {
	return c.Counties(ctx, Query{})
}

// County looks a single county up by name (exact match on MD_NAME).
func (c *Client) County(ctx context.Context, name string) (domain.County, error) {
	where := fmt.Sprintf("%s = '%s'", NameField, strings.ReplaceAll(name, "'", "''"))
	found, err := c.Counties(ctx, Query{Where: where})
	if err != nil {
		return domain.County{}, err
	}
	if len(found) == 0 {
		return domain.County{}, &domain.OpError{
			Op:   "altabound.county",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("no county named %q: %w", name, domain.ErrNotFound),
		}
	}
	return found[0], nil
}

func (c *Client) recordCount(ctx context.Context, where string) (int, error) {
	params := url.Values{
		"where":           {where},
		"returnCountOnly": {"true"},
		"f":               {"json"},
	}
	doc, err := c.getJSON(ctx, c.layerURL+"/query", params)
	if err != nil {
		return 0, err
	}

	raw, err := jsonpath.Get("$.count", doc)
	if err != nil {
		return 0, &domain.OpError{
			Op:   "altabound.count",
			Kind: domain.KindRequest,
			Path: c.layerURL,
			Err:  fmt.Errorf("count missing from response: %w", err),
		}
	}
	n, ok := raw.(float64)
	if !ok {
		return 0, &domain.OpError{
			Op:   "altabound.count",
			Kind: domain.KindRequest,
			Path: c.layerURL,
			Err:  fmt.Errorf("count has type %T", raw),
		}
	}
	return int(n), nil
}

func (c *Client) maxRecordCount(ctx context.Context) (int, error) {
	doc, err := c.getJSON(ctx, c.layerURL, url.Values{"f": {"json"}})
	if err != nil {
		return 0, err
	}

	raw, err := jsonpath.Get("$.maxRecordCount", doc)
	if err != nil {
		return 0, &domain.OpError{
			Op:   "altabound.max_record_count",
			Kind: domain.KindRequest,
			Path: c.layerURL,
			Err:  fmt.Errorf("maxRecordCount missing from response: %w", err),
		}
	}
	n, ok := raw.(float64)
	if !ok || n <= 0 {
		return 0, &domain.OpError{
			Op:   "altabound.max_record_count",
			Kind: domain.KindRequest,
			Path: c.layerURL,
			Err:  fmt.Errorf("maxRecordCount unusable: %v", raw),
		}
	}
	return int(n), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values) (any, error) {
	body, err := c.get(ctx, rawURL, params)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &domain.OpError{
			Op:   "altabound.decode",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  err,
		}
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	full := rawURL
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "altabound.get",
			Kind: domain.KindInvalidInput,
			Path: rawURL,
			Err:  err,
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "altabound.get",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "altabound.read",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.OpError{
			Op:   "altabound.get",
			Kind: domain.KindRequest,
			Path: rawURL,
			Err:  fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	return body, nil
}
