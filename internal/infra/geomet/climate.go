package geomet

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/CChelak/dan-lab/internal/domain"
)

const defaultDailySort = "+LOCAL_DATE"

// streamingDailySort orders the full-archive download so each climate ID
// arrives contiguously, letting the caller flush finished stations early.
const streamingDailySort = "+CLIMATE_IDENTIFIER,+LOCAL_DATE"

// Daily fetches climate-daily records for the queried stations, aggregated
// into one table.
func (c *Client) Daily(ctx context.Context, q domain.ClimateQuery) (*domain.Table, error) {
	return c.climateItems(ctx, CollectionDaily, q, defaultDailySort)
}

// Hourly fetches climate-hourly records. The hourly collection rejects
// multi-station filters, so exactly one station ID is required.
func (c *Client) Hourly(ctx context.Context, q domain.ClimateQuery) (*domain.Table, error) {
	if len(q.StationIDs) != 1 {
		return nil, &domain.OpError{
			Op:   "geomet.hourly",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("hourly queries take exactly one station ID, got %d", len(q.StationIDs)),
		}
	}
	return c.climateItems(ctx, CollectionHourly, q, defaultDailySort)
}

func (c *Client) climateItems(ctx context.Context, collection string, q domain.ClimateQuery, defaultSort string) (*domain.Table, error) {
	params, props := c.climateParams(ctx, collection, q, defaultSort)

	table := &domain.Table{}
	err := c.pageItems(ctx, c.itemsURL(collection), params, func(fc featureCollection) error {
		table.Concat(tableFromFeatures(fc.Features))
		return nil
	})
	if err != nil {
		return nil, err
	}

	table.ReorderColumns(props)
	return table, nil
}

// DailyPages streams climate-daily pages to the callback instead of
// aggregating, ordered so all rows of a climate ID are adjacent. Used by the
// full-archive download, which writes stations out as they complete.
func (c *Client) DailyPages(ctx context.Context, q domain.ClimateQuery, onPage func(*domain.Table) error) error {
	if q.SortBy == "" {
		q.SortBy = streamingDailySort
	}
	params, props := c.climateParams(ctx, CollectionDaily, q, streamingDailySort)

	return c.pageItems(ctx, c.itemsURL(CollectionDaily), params, func(fc featureCollection) error {
		t := tableFromFeatures(fc.Features)
		t.ReorderColumns(props)
		return onPage(t)
	})
}

// climateParams assembles the query values shared by daily and hourly
// fetches, dropping unqueryable properties first.
func (c *Client) climateParams(ctx context.Context, collection string, q domain.ClimateQuery, defaultSort string) (url.Values, []string) {
	props := c.filterQueryable(ctx, collection, q.Properties)

	params := url.Values{}
	params.Set("f", "json")

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = defaultSort
	}
	params.Set("sortby", sortBy)

	for _, id := range q.StationIDs {
		params.Add("STN_ID", strconv.Itoa(id))
	}
	if props != nil {
		params.Set("properties", joinProperties(props))
	}
	if v := q.Interval.QueryValue(); v != "" {
		params.Set("datetime", v)
	}
	for k, v := range q.Extra {
		params.Set(k, v)
	}

	return params, props
}
