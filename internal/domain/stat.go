package domain

import "slices"

// RegionStat is one provider's counts for one region.
type RegionStat struct {
	Region RegionIdentity `json:"region"`

	// Reported is the region name exactly as the provider spelled it.
	Reported string    `json:"reported,omitempty"`
	Match    MatchKind `json:"-"`

	Confirmed int `json:"confirmed"`
	Recovered int `json:"recovered"`
	Deceased  int `json:"deceased"`

	// Active is supplied by the provider or derived. It can be negative in
	// upstream data and is never clamped.
	Active int `json:"active"`

	// Missing lists counts the provider left blank. Only the unassigned
	// bucket of the MoHFW site is accepted with blanks; its missing counts
	// hold zero.
	Missing []Metric `json:"missing,omitempty"`
}

// NewRegionStat builds a RegionStat with active derived from the other counts.
func NewRegionStat(region RegionIdentity, confirmed, recovered, deceased int) RegionStat {
	return RegionStat{
		Region:    region,
		Confirmed: confirmed,
		Recovered: recovered,
		Deceased:  deceased,
		Active:    DeriveActive(confirmed, recovered, deceased),
	}
}

// DeriveActive returns confirmed - recovered - deceased.
func DeriveActive(confirmed, recovered, deceased int) int {
	return confirmed - recovered - deceased
}

// Has reports whether the provider supplied the count selected by m.
func (s RegionStat) Has(m Metric) bool {
	return !slices.Contains(s.Missing, m)
}

// Value returns the count selected by m.
func (s RegionStat) Value(m Metric) int {
	switch m {
	case MetricActive:
		return s.Active
	case MetricRecovered:
		return s.Recovered
	case MetricDeceased:
		return s.Deceased
	default:
		return s.Confirmed
	}
}

// DistrictStat is one district's counts within a region. District data is
// passed through as reported, including negative values.
type DistrictStat struct {
	Name           string `json:"name"`
	Confirmed      int    `json:"confirmed"`
	Active         int    `json:"active"`
	Recovered      int    `json:"recovered"`
	Deceased       int    `json:"deceased"`
	DeltaConfirmed int    `json:"delta_confirmed"`
}
