package domain

import "strings"

// AnomalyKind classifies a data-quality problem in district data.
type AnomalyKind string

const (
	// AnomalyUnknownDistrict is an "Unknown" district still carrying counts
	// that have not been attributed to a real district.
	AnomalyUnknownDistrict AnomalyKind = "unknown-district"
	// AnomalyNegativeCount is a district with a negative count.
	AnomalyNegativeCount AnomalyKind = "negative-count"
)

const unknownDistrict = "unknown"

// DistrictAnomaly is one flagged district.
type DistrictAnomaly struct {
	Region   RegionIdentity
	District DistrictStat
	Kind     AnomalyKind
}

// FindDistrictAnomalies flags, in input order, every district named Unknown
// with non-zero confirmed, recovered or deceased counts and every district
// with a negative count. A district is reported at most once; the unknown
// check wins.
func FindDistrictAnomalies(region RegionIdentity, districts []DistrictStat) []DistrictAnomaly {
	var out []DistrictAnomaly
	for _, d := range districts {
		switch {
		case strings.EqualFold(d.Name, unknownDistrict) && (d.Confirmed != 0 || d.Recovered != 0 || d.Deceased != 0):
			out = append(out, DistrictAnomaly{Region: region, District: d, Kind: AnomalyUnknownDistrict})
		case d.Confirmed < 0 || d.Active < 0 || d.Recovered < 0 || d.Deceased < 0:
			out = append(out, DistrictAnomaly{Region: region, District: d, Kind: AnomalyNegativeCount})
		}
	}
	return out
}
