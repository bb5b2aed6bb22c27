package solaredge

import (
	"net/url"
	"strings"
)

type queryOptions struct {
	timeUnit TimeUnit
	meters   []Meter
	serials  []string
}

// QueryOption sets an optional parameter on a single request.
type QueryOption func(*queryOptions)

// WithTimeUnit sets timeUnit on Energy, TimeFrameEnergy and EnergyDetails.
func WithTimeUnit(unit TimeUnit) QueryOption {
	return func(o *queryOptions) {
		o.timeUnit = unit
	}
}

// WithMeters restricts PowerDetails and EnergyDetails to the given meters.
func WithMeters(meters ...Meter) QueryOption {
	return func(o *queryOptions) {
		o.meters = meters
	}
}

// WithSerials restricts StorageData to the given battery serial numbers.
func WithSerials(serials ...string) QueryOption {
	return func(o *queryOptions) {
		o.serials = serials
	}
}

func buildQueryOptions(opts []QueryOption) queryOptions {
	o := queryOptions{timeUnit: DefaultTimeUnit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeUnit == "" {
		o.timeUnit = DefaultTimeUnit
	}
	return o
}

// Details returns the site details.
func (c *Client) Details() (any, error) {
	return c.get("details", url.Values{})
}

// DataPeriod returns the first and last dates for which the site has data.
func (c *Client) DataPeriod() (any, error) {
	return c.get("dataPeriod", url.Values{})
}

// Energy returns the energy series between two dates (yyyy-mm-dd).
func (c *Client) Energy(startDate, endDate string, opts ...QueryOption) (any, error) {
	o := buildQueryOptions(opts)
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)
	params.Set("timeUnit", string(o.timeUnit))
	return c.get("energy", params)
}

// TimeFrameEnergy returns the total energy produced between two dates.
func (c *Client) TimeFrameEnergy(startDate, endDate string, opts ...QueryOption) (any, error) {
	o := buildQueryOptions(opts)
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)
	params.Set("timeUnit", string(o.timeUnit))
	return c.get("timeFrameEnergy", params)
}

// Power returns the quarter-hourly power series between two times.
func (c *Client) Power(startTime, endTime string) (any, error) {
	params := url.Values{}
	params.Set("startTime", startTime)
	params.Set("endTime", endTime)
	return c.get("power", params)
}

// Overview returns lifetime, yearly, monthly and daily energy plus the
// current power.
func (c *Client) Overview() (any, error) {
	return c.get("overview", url.Values{})
}

// PowerDetails returns per-meter power between two times (yyyy-mm-dd hh:mm:ss).
func (c *Client) PowerDetails(startTime, endTime string, opts ...QueryOption) (any, error) {
	o := buildQueryOptions(opts)
	params := url.Values{}
	params.Set("startTime", startTime)
	params.Set("endTime", endTime)
	if len(o.meters) > 0 {
		params.Set("meters", joinMeters(o.meters))
	}
	return c.get("powerDetails", params)
}

// EnergyDetails returns per-meter energy between two times.
func (c *Client) EnergyDetails(startTime, endTime string, opts ...QueryOption) (any, error) {
	o := buildQueryOptions(opts)
	params := url.Values{}
	params.Set("startTime", startTime)
	params.Set("endTime", endTime)
	params.Set("timeUnit", string(o.timeUnit))
	if len(o.meters) > 0 {
		params.Set("meters", joinMeters(o.meters))
	}
	return c.get("energyDetails", params)
}

// CurrentPowerFlow returns the current power flow between the site's
// components.
func (c *Client) CurrentPowerFlow() (any, error) {
	return c.get("currentPowerFlow", url.Values{})
}

// StorageData returns battery state between two times.
func (c *Client) StorageData(startTime, endTime string, opts ...QueryOption) (any, error) {
	o := buildQueryOptions(opts)
	params := url.Values{}
	params.Set("startTime", startTime)
	params.Set("endTime", endTime)
	if len(o.serials) > 0 {
		params.Set("serials", strings.Join(o.serials, ","))
	}
	return c.get("storageData", params)
}
