package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// archiver periodically writes site overviews to InfluxDB
type archiver struct {
	sites    []Site
	writeAPI api.WriteAPIBlocking
	interval time.Duration
	logger   *slog.Logger
}

func newArchiver(sites []Site, writeAPI api.WriteAPIBlocking, interval time.Duration, logger *slog.Logger) *archiver {
	return &archiver{
		sites:    sites,
		writeAPI: writeAPI,
		interval: interval,
		logger:   logger,
	}
}

// run archives immediately and then every interval until ctx is done
func (a *archiver) run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	a.logger.Info("archiving overviews", slog.Duration("interval", a.interval), slog.Int("sites", len(a.sites)))

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := a.archive(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("archive failed", slog.Any("error", err))
			}
			timer.Reset(a.interval)
		}
	}
}

// archive writes one overview point per site. A failing site does not
// stop the others; all failures are returned together.
func (a *archiver) archive(ctx context.Context) error {
	var errs []error
	now := time.Now()

	for _, site := range a.sites {
		overview, err := fetchOverview(site)
		if err != nil {
			errs = append(errs, fmt.Errorf("site %s: %w", site.Name, err))
			continue
		}

		o := overview.Overview
		p := influxdb2.NewPoint(
			"overview",
			map[string]string{
				"site_id":   site.Client.SiteID(),
				"site_name": site.Name,
			},
			map[string]interface{}{
				"current_power":   o.CurrentPower.Power,
				"last_day_energy": o.LastDayData.Energy,
				"lifetime_energy": o.LifeTimeData.Energy,
			},
			now,
		)
		if err := a.writeAPI.WritePoint(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("site %s: write point: %w", site.Name, err))
			continue
		}
		a.logger.Debug("overview archived", slog.String("site_name", site.Name))
	}

	return errors.Join(errs...)
}
