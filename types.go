package main

// SiteConfig describes one SolarEdge site to monitor
type SiteConfig struct {
	Name   string
	Token  string
	SiteID string // optional, seeds the initial details lookup
}

// EnergyValue is an energy/revenue pair from the overview endpoint
type EnergyValue struct {
	Energy  float64 `json:"energy"`
	Revenue float64 `json:"revenue"`
}

// Overview represents the response from /site/{id}/overview
type Overview struct {
	Overview struct {
		LastUpdateTime string      `json:"lastUpdateTime"`
		LifeTimeData   EnergyValue `json:"lifeTimeData"`
		LastYearData   EnergyValue `json:"lastYearData"`
		LastMonthData  EnergyValue `json:"lastMonthData"`
		LastDayData    EnergyValue `json:"lastDayData"`
		CurrentPower   struct {
			Power float64 `json:"power"` // Watts
		} `json:"currentPower"`
		MeasuredBy string `json:"measuredBy"`
	} `json:"overview"`
}

// DataPeriod represents the response from /site/{id}/dataPeriod
// Dates are nil for sites that have not reported any data yet
type DataPeriod struct {
	DataPeriod struct {
		StartDate *string `json:"startDate"`
		EndDate   *string `json:"endDate"`
	} `json:"dataPeriod"`
}
