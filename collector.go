package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/JHOFER-Cloud/solaredge-exporter/solaredge"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Collector implements prometheus.Collector for SolarEdge sites
type Collector struct {
	sites  []Site
	logger *slog.Logger

	// Metrics
	currentPower    *prometheus.Desc
	energyLifetime  *prometheus.Desc
	energyLastYear  *prometheus.Desc
	energyLastMonth *prometheus.Desc
	energyLastDay   *prometheus.Desc
	revenueLifetime *prometheus.Desc
	dataStart       *prometheus.Desc
	dataEnd         *prometheus.Desc
	info            *prometheus.Desc
	scrapeSuccess   *prometheus.Desc
}

// NewCollector creates a new SolarEdge collector
func NewCollector(sites []Site, logger *slog.Logger) *Collector {
	labels := []string{"site_name", "site_id"}
	return &Collector{
		sites:  sites,
		logger: logger,
		currentPower: prometheus.NewDesc(
			"solaredge_current_power_watts",
			"Current site production in watts",
			labels,
			nil,
		),
		energyLifetime: prometheus.NewDesc(
			"solaredge_energy_lifetime_wh",
			"Energy produced since installation in watt-hours",
			labels,
			nil,
		),
		energyLastYear: prometheus.NewDesc(
			"solaredge_energy_last_year_wh",
			"Energy produced in the current year in watt-hours",
			labels,
			nil,
		),
		energyLastMonth: prometheus.NewDesc(
			"solaredge_energy_last_month_wh",
			"Energy produced in the current month in watt-hours",
			labels,
			nil,
		),
		energyLastDay: prometheus.NewDesc(
			"solaredge_energy_last_day_wh",
			"Energy produced today in watt-hours",
			labels,
			nil,
		),
		revenueLifetime: prometheus.NewDesc(
			"solaredge_revenue_lifetime",
			"Revenue since installation in the site currency",
			labels,
			nil,
		),
		dataStart: prometheus.NewDesc(
			"solaredge_data_period_start_timestamp_seconds",
			"First date the site has data for, as a unix timestamp",
			labels,
			nil,
		),
		dataEnd: prometheus.NewDesc(
			"solaredge_data_period_end_timestamp_seconds",
			"Last date the site has data for, as a unix timestamp",
			labels,
			nil,
		),
		info: prometheus.NewDesc(
			"solaredge_info",
			"SolarEdge site information",
			[]string{"site_name", "site_id", "measured_by"},
			nil,
		),
		scrapeSuccess: prometheus.NewDesc(
			"solaredge_scrape_success",
			"Whether scraping the site API was successful",
			[]string{"site_name"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.currentPower
	ch <- c.energyLifetime
	ch <- c.energyLastYear
	ch <- c.energyLastMonth
	ch <- c.energyLastDay
	ch <- c.revenueLifetime
	ch <- c.dataStart
	ch <- c.dataEnd
	ch <- c.info
	ch <- c.scrapeSuccess
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var wg sync.WaitGroup

	for _, site := range c.sites {
		wg.Add(1)
		go func(s Site) {
			defer wg.Done()
			c.collectSite(s, ch)
		}(site)
	}

	wg.Wait()
}

func (c *Collector) collectSite(site Site, ch chan<- prometheus.Metric) {
	var (
		overview *Overview
		period   *DataPeriod
		g        errgroup.Group
	)
	g.Go(func() (err error) {
		overview, err = fetchOverview(site)
		return err
	})
	g.Go(func() (err error) {
		period, err = fetchDataPeriod(site)
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("scrape failed", slog.String("site_name", site.Name), slog.Any("error", err))
		ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 0, site.Name)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.scrapeSuccess, prometheus.GaugeValue, 1, site.Name)

	siteID := site.Client.SiteID()
	labels := []string{site.Name, siteID}
	o := overview.Overview

	ch <- prometheus.MustNewConstMetric(c.currentPower, prometheus.GaugeValue, o.CurrentPower.Power, labels...)
	ch <- prometheus.MustNewConstMetric(c.energyLifetime, prometheus.CounterValue, o.LifeTimeData.Energy, labels...)
	ch <- prometheus.MustNewConstMetric(c.energyLastYear, prometheus.GaugeValue, o.LastYearData.Energy, labels...)
	ch <- prometheus.MustNewConstMetric(c.energyLastMonth, prometheus.GaugeValue, o.LastMonthData.Energy, labels...)
	ch <- prometheus.MustNewConstMetric(c.energyLastDay, prometheus.GaugeValue, o.LastDayData.Energy, labels...)
	ch <- prometheus.MustNewConstMetric(c.revenueLifetime, prometheus.CounterValue, o.LifeTimeData.Revenue, labels...)

	// Sites without any data report null dates
	if ts, ok := parseDate(period.DataPeriod.StartDate); ok {
		ch <- prometheus.MustNewConstMetric(c.dataStart, prometheus.GaugeValue, float64(ts.Unix()), labels...)
	}
	if ts, ok := parseDate(period.DataPeriod.EndDate); ok {
		ch <- prometheus.MustNewConstMetric(c.dataEnd, prometheus.GaugeValue, float64(ts.Unix()), labels...)
	}

	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1, site.Name, siteID, o.MeasuredBy)
}

func parseDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(solaredge.DateLayout, *s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
