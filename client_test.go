package main

import (
	"errors"
	"testing"
)

// fakeSite is a siteAPI returning canned pass-through bodies
type fakeSite struct {
	id         string
	overview   any
	dataPeriod any
	err        error
}

func (f *fakeSite) SiteID() string { return f.id }

func (f *fakeSite) Overview() (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.overview, nil
}

func (f *fakeSite) DataPeriod() (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dataPeriod, nil
}

func TestFetchOverview(t *testing.T) {
	server := newMockAPIServer()
	defer server.Close()

	site := connectMockSites(t, server, "roof")[0]

	overview, err := fetchOverview(site)
	if err != nil {
		t.Fatalf("fetchOverview() error = %v", err)
	}

	o := overview.Overview
	if o.CurrentPower.Power != 3150.5 {
		t.Errorf("CurrentPower = %f, want 3150.5", o.CurrentPower.Power)
	}
	if o.LifeTimeData.Energy != 761985.75 {
		t.Errorf("LifeTimeData.Energy = %f, want 761985.75", o.LifeTimeData.Energy)
	}
	if o.MeasuredBy != "INVERTER" {
		t.Errorf("MeasuredBy = %s, want INVERTER", o.MeasuredBy)
	}
}

func TestFetchDataPeriod(t *testing.T) {
	server := newMockAPIServer()
	defer server.Close()

	site := connectMockSites(t, server, "roof")[0]

	period, err := fetchDataPeriod(site)
	if err != nil {
		t.Fatalf("fetchDataPeriod() error = %v", err)
	}

	if period.DataPeriod.StartDate == nil || *period.DataPeriod.StartDate != "2020-05-04" {
		t.Errorf("StartDate = %v, want 2020-05-04", period.DataPeriod.StartDate)
	}
	if period.DataPeriod.EndDate == nil || *period.DataPeriod.EndDate != "2024-06-01" {
		t.Errorf("EndDate = %v, want 2024-06-01", period.DataPeriod.EndDate)
	}
}

func TestFetchOverview_Error(t *testing.T) {
	wantErr := errors.New("boom")
	site := Site{Name: "test", Client: &fakeSite{id: "1", err: wantErr}}

	_, err := fetchOverview(site)
	if !errors.Is(err, wantErr) {
		t.Errorf("fetchOverview() error = %v, want %v", err, wantErr)
	}
}

func TestFetchOverview_UnexpectedShape(t *testing.T) {
	site := Site{Name: "test", Client: &fakeSite{id: "1", overview: map[string]any{"overview": "not an object"}}}

	_, err := fetchOverview(site)
	if err == nil {
		t.Error("fetchOverview() expected error for unexpected shape")
	}
}

func TestDecodeInto(t *testing.T) {
	raw := map[string]any{
		"dataPeriod": map[string]any{
			"startDate": "2020-01-01",
			"endDate":   nil,
		},
	}

	var period DataPeriod
	if err := decodeInto(raw, &period); err != nil {
		t.Fatalf("decodeInto() error = %v", err)
	}
	if period.DataPeriod.StartDate == nil || *period.DataPeriod.StartDate != "2020-01-01" {
		t.Errorf("StartDate = %v, want 2020-01-01", period.DataPeriod.StartDate)
	}
	if period.DataPeriod.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", *period.DataPeriod.EndDate)
	}
}
