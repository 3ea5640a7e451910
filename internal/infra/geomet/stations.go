package geomet

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/CChelak/dan-lab/internal/domain"
)

// Stations fetches the climate-stations collection, paging until every match
// has been read. The returned table holds the requested properties as
// columns; the station slice carries the typed view of the same features.
//
// Zero matches is not an error: both returns are empty and the miss is
// logged, so exploratory queries read naturally.
func (c *Client) Stations(ctx context.Context, q domain.StationQuery) (*domain.Table, []domain.Station, error) {
	props := c.filterQueryable(ctx, CollectionStations, q.Properties)

	params := url.Values{}
	params.Set("f", "json")
	if q.Province != "" {
		params.Set("PROV_STATE_TERR_CODE", string(q.Province))
	}
	if q.BBox != nil {
		params.Set("bbox", q.BBox.String())
	}
	if props != nil {
		params.Set("properties", joinProperties(props))
	}
	for k, v := range q.Extra {
		params.Set(k, v)
	}

	table := &domain.Table{}
	var stations []domain.Station

	err := c.pageItems(ctx, c.itemsURL(CollectionStations), params, func(fc featureCollection) error {
		table.Concat(tableFromFeatures(fc.Features))
		for _, f := range fc.Features {
			stations = append(stations, stationFromFeature(f))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	table.ReorderColumns(props)
	return table, stations, nil
}

// pageItems drives the shared offset/limit pagination: the match count fixes
// the number of pages, a failed page is retried after a pause, and the
// offset only advances once a page lands.
func (c *Client) pageItems(ctx context.Context, itemsURL string, params url.Values, onPage func(featureCollection) error) error {
	params = cloneValues(params)
	params.Set("limit", strconv.Itoa(c.pageLimit))
	params.Set("offset", "0")

	nMatched := c.NumberMatched(ctx, itemsURL, params)
	if nMatched <= 0 {
		c.log.Error("geomet.no_items_matched", "url", itemsURL, "params", params.Encode())
		return nil
	}

	nPages := (nMatched + c.pageLimit - 1) / c.pageLimit
	offset := 0

	for page := 0; page < nPages; {
		params.Set("offset", strconv.Itoa(offset))

		body, err := c.get(ctx, itemsURL, params)
		if err != nil {
			c.log.Error("geomet.page_failed", "url", itemsURL, "offset", offset, "err", err)
			if werr := c.wait(ctx); werr != nil {
				return &domain.OpError{
					Op:   "geomet.page",
					Kind: domain.KindRequest,
					Path: itemsURL,
					Err:  werr,
				}
			}
			continue
		}

		fc, err := decodeFeatureCollection(body)
		if err != nil {
			return err
		}
		if err := onPage(fc); err != nil {
			return err
		}

		offset += c.pageLimit
		page++
	}

	return nil
}

// joinProperties renders a property list for the properties query parameter.
func joinProperties(props []string) string {
	return strings.Join(props, ",")
}
