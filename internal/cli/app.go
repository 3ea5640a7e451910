package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/infra/altabound"
	"github.com/CChelak/dan-lab/internal/infra/config"
	"github.com/CChelak/dan-lab/internal/infra/csvfile"
	"github.com/CChelak/dan-lab/internal/infra/geomet"
	"github.com/CChelak/dan-lab/internal/infra/httpclient"
	"github.com/CChelak/dan-lab/internal/infra/logger"
	"github.com/CChelak/dan-lab/internal/infra/manifest"
	"github.com/CChelak/dan-lab/internal/ports"
	"github.com/CChelak/dan-lab/internal/store/memory"
	"github.com/CChelak/dan-lab/internal/store/postgres"
)

// appCtx bundles the configured adapters the subcommands share.
type appCtx struct {
	cfg domain.Config

	geomet   *geomet.Client
	counties *altabound.Client

	stations  ports.StationStore
	manifests ports.ManifestStore
	writer    ports.DailyWriter

	db *sql.DB
}

func loadApp(configFlag string) (*appCtx, func(), error) {
	path := strings.TrimSpace(configFlag)
	if path == "" {
		path = config.DefaultFileName
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, nil, err
	}

	hc := httpclient.New(httpClientConfig(cfg))

	app := &appCtx{
		cfg: cfg,
		geomet: geomet.New(hc,
			geomet.WithBaseURL(cfg.API.GeoMetBaseURL),
			geomet.WithLogger(logger.L()),
			geomet.WithPageLimit(cfg.Download.PageLimit),
			geomet.WithRetryWait(cfg.Download.RetryWait),
		),
		counties: altabound.New(hc,
			altabound.WithLayerURL(cfg.API.AlbertaBoundaryURL),
			altabound.WithLogger(logger.L()),
		),
		manifests: manifest.NewJSONStore(".", cfg, manifest.WithIndex(true)),
		writer:    csvfile.Writer{},
	}

	cleanup := func() {}
	switch cfg.Store.Backend {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := postgres.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewStationStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		app.db = db
		app.stations = store
		cleanup = func() { _ = db.Close() }
	default:
		app.stations = memory.NewStationStore()
	}

	return app, cleanup, nil
}

func httpClientConfig(cfg domain.Config) httpclient.Config {
	hcfg := httpclient.DefaultConfig()
	if cfg.API.Timeout > 0 {
		hcfg.Timeout = cfg.API.Timeout
	}
	return hcfg
}

// parseDay reads a YYYY-MM-DD flag value.
func parseDay(flag, v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, v)
	}
	return t, nil
}

// intervalFromFlags turns optional --start/--end values into a date interval.
func intervalFromFlags(start, end string) (*domain.DateInterval, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	switch {
	case start == "" && end == "":
		return nil, nil
	case start != "" && end != "":
		s, err := parseDay("start", start)
		if err != nil {
			return nil, err
		}
		e, err := parseDay("end", end)
		if err != nil {
			return nil, err
		}
		return domain.Between(s, e), nil
	case start != "":
		s, err := parseDay("start", start)
		if err != nil {
			return nil, err
		}
		return domain.Since(s), nil
	default:
		e, err := parseDay("end", end)
		if err != nil {
			return nil, err
		}
		return domain.Until(e), nil
	}
}

// parseProvince validates an optional two-letter province flag. Empty means
// no province filter.
func parseProvince(v string) (domain.ProvinceCode, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return "", nil
	}
	return domain.ParseProvinceCode(v)
}

// splitList turns a comma separated flag into trimmed entries.
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
