package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Metric selects the count a report is ordered by.
type Metric int

const (
	MetricConfirmed Metric = iota
	MetricActive
	MetricRecovered
	MetricDeceased
)

func (m Metric) String() string {
	switch m {
	case MetricActive:
		return "active"
	case MetricRecovered:
		return "recovered"
	case MetricDeceased:
		return "deceased"
	default:
		return "confirmed"
	}
}

// ParseMetric accepts a metric name or its common abbreviation.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirmed", "conf", "cnfrd":
		return MetricConfirmed, nil
	case "active", "acti", "activ":
		return MetricActive, nil
	case "recovered", "reco", "rcvrd", "cured":
		return MetricRecovered, nil
	case "deceased", "dece", "decsd", "deaths":
		return MetricDeceased, nil
	default:
		return MetricConfirmed, fmt.Errorf("unknown metric %q", s)
	}
}

// Rank returns a copy of stats ordered by m, highest first. Equal values keep
// their input order.
func Rank(stats []RegionStat, m Metric) []RegionStat {
	out := make([]RegionStat, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value(m) > out[j].Value(m)
	})
	return out
}

// Partition splits stats into those matching pred and the rest, preserving
// order in both.
func Partition(stats []RegionStat, pred func(RegionStat) bool) (matched, rest []RegionStat) {
	for _, s := range stats {
		if pred(s) {
			matched = append(matched, s)
		} else {
			rest = append(rest, s)
		}
	}
	return matched, rest
}

// SplitAggregate separates the national total from the per-region stats. The
// total is nil when the input has none.
func SplitAggregate(stats []RegionStat, regions *Registry) (*RegionStat, []RegionStat) {
	totals, rest := Partition(stats, func(s RegionStat) bool {
		return regions.IsAggregate(s.Region)
	})
	if len(totals) == 0 {
		return nil, rest
	}
	total := totals[0]
	return &total, rest
}
