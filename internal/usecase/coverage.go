package usecase

import (
	"context"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/integrity"
	"github.com/CChelak/dan-lab/internal/ports"
)

// Coverage measures the completeness of a station's daily record.
type Coverage struct {
	climate ports.ClimateSource
}

func NewCoverage(cs ports.ClimateSource) *Coverage {
	return &Coverage{climate: cs}
}

// CoverageRequest selects the records and the observation columns judged.
type CoverageRequest struct {
	Query   domain.ClimateQuery
	Columns []string
}

// CoverageResult is the completeness breakdown of one daily record set.
type CoverageResult struct {
	Rows         int
	MissingDays  int
	Coverage     map[string]float64
	FullCoverage float64
}

func (uc *Coverage) Execute(ctx context.Context, req CoverageRequest) (CoverageResult, error) {
	q := req.Query
	if len(q.Properties) > 0 && !contains(q.Properties, integrity.DefaultDateColumn) {
		q.Properties = append([]string{integrity.DefaultDateColumn}, q.Properties...)
	}

	daily, err := uc.climate.Daily(ctx, q)
	if err != nil {
		return CoverageResult{}, err
	}
	if daily.IsEmpty() {
		return CoverageResult{}, &domain.OpError{
			Op:   "usecase.coverage",
			Kind: domain.KindNotFound,
			Err:  domain.ErrNoData,
		}
	}

	res := CoverageResult{Rows: daily.Len()}

	missing, err := integrity.MissingDays(daily, integrity.DefaultDateColumn)
	if err != nil {
		return CoverageResult{}, err
	}
	res.MissingDays = len(missing)

	res.Coverage, err = integrity.CoveragePercentages(daily, req.Columns, integrity.DefaultDateColumn)
	if err != nil {
		return CoverageResult{}, err
	}
	res.FullCoverage, err = integrity.PercentRowsFullyCovered(daily, req.Columns, integrity.DefaultDateColumn)
	if err != nil {
		return CoverageResult{}, err
	}
	return res, nil
}
