package domain

import "time"

// DownloadManifest records one completed download so it can be audited or
// reproduced later.
type DownloadManifest struct {
	ID string

	// Collection is the upstream collection the data came from, such as
	// climate-daily or climate-hourly.
	Collection string

	StationIDs []int
	ClimateIDs []string
	Properties []string
	Interval   string

	StartedAt  time.Time
	FinishedAt time.Time

	// Files are the paths written, relative to the output directory when
	// possible.
	Files []string

	RowCount int
}
