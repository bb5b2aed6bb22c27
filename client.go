package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/JHOFER-Cloud/solaredge-exporter/solaredge"
	"golang.org/x/sync/errgroup"
)

// siteAPI is the subset of the SolarEdge client used by the exporter
type siteAPI interface {
	SiteID() string
	Overview() (any, error)
	DataPeriod() (any, error)
}

// Site is a configured site with a resolved API client
type Site struct {
	Name   string
	Client siteAPI
}

// connectSites resolves every configured site concurrently. Any failure is
// returned, since a client that could not resolve its site id is unusable.
func connectSites(cfgs []SiteConfig, baseURL string, timeout time.Duration, logger *slog.Logger) ([]Site, error) {
	sites := make([]Site, len(cfgs))

	var g errgroup.Group
	for i, cfg := range cfgs {
		g.Go(func() error {
			opts := []solaredge.Option{
				solaredge.WithBaseURL(baseURL),
				solaredge.WithTimeout(timeout),
				solaredge.WithLogger(logger.With(slog.String("site_name", cfg.Name))),
			}
			if cfg.SiteID != "" {
				opts = append(opts, solaredge.WithSiteID(cfg.SiteID))
			}

			client, err := solaredge.New(cfg.Token, opts...)
			if err != nil {
				return fmt.Errorf("site %s: %w", cfg.Name, err)
			}
			sites[i] = Site{Name: cfg.Name, Client: client}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sites, nil
}

// fetchOverview retrieves the current production snapshot of a site
func fetchOverview(site Site) (*Overview, error) {
	var overview Overview
	raw, err := site.Client.Overview()
	if err != nil {
		return nil, err
	}
	if err := decodeInto(raw, &overview); err != nil {
		return nil, fmt.Errorf("failed to decode overview for %s: %w", site.Name, err)
	}
	return &overview, nil
}

// fetchDataPeriod retrieves the first and last data dates of a site
func fetchDataPeriod(site Site) (*DataPeriod, error) {
	var period DataPeriod
	raw, err := site.Client.DataPeriod()
	if err != nil {
		return nil, err
	}
	if err := decodeInto(raw, &period); err != nil {
		return nil, fmt.Errorf("failed to decode data period for %s: %w", site.Name, err)
	}
	return &period, nil
}

// decodeInto converts a pass-through JSON value into a typed struct
func decodeInto(raw any, target any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}
