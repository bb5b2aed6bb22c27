package solaredge

import (
	"strings"
	"time"
)

// TimeUnit is the aggregation granularity accepted by the energy endpoints.
type TimeUnit string

const (
	QuarterOfAnHour TimeUnit = "QUARTER_OF_AN_HOUR"
	Hour            TimeUnit = "HOUR"
	Day             TimeUnit = "DAY"
	Week            TimeUnit = "WEEK"
	Month           TimeUnit = "MONTH"
	Year            TimeUnit = "YEAR"
)

// DefaultTimeUnit is sent when the caller does not pick one.
const DefaultTimeUnit = Day

// Meter names a sub-metered component of an installation.
type Meter string

const (
	MeterProduction      Meter = "Production"
	MeterConsumption     Meter = "Consumption"
	MeterSelfConsumption Meter = "SelfConsumption"
	MeterFeedIn          Meter = "FeedIn"
	MeterPurchased       Meter = "Purchased"
)

// Layouts used by the monitoring API for startDate/endDate and
// startTime/endTime parameters.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// FormatDate renders t as a startDate/endDate value.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t as a startTime/endTime value.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

func joinMeters(meters []Meter) string {
	names := make([]string, len(meters))
	for i, m := range meters {
		names[i] = string(m)
	}
	return strings.Join(names, ",")
}
