package domain

import (
	"fmt"
	"strings"
)

// Reject records a provider row excluded from a report and why.
type Reject struct {
	Provider Provider
	Name     string
	Err      error
}

// Normalizer converts provider record shapes into RegionStat values.
type Normalizer struct {
	regions *Registry
}

// NewNormalizer returns a Normalizer resolving names against regions.
func NewNormalizer(regions *Registry) *Normalizer {
	return &Normalizer{regions: regions}
}

// rawCounts is the provider-neutral text form of a row's counts.
type rawCounts struct {
	confirmed string
	recovered string
	deceased  string
	active    string
	hasActive bool

	// blankUnassigned lets the unassigned bucket carry blank cells.
	blankUnassigned bool
}

// Aggregator normalizes a covid19india statewise entry.
func (n *Normalizer) Aggregator(rec AggregatorRecord) (RegionStat, error) {
	return n.normalize(ProviderAggregator, rec.State, rawCounts{
		confirmed: string(rec.Confirmed),
		recovered: string(rec.Recovered),
		deceased:  string(rec.Deaths),
		active:    string(rec.Active),
		hasActive: true,
	})
}

// Ministry normalizes a MoHFW API entry.
func (n *Normalizer) Ministry(rec MinistryRecord) (RegionStat, error) {
	return n.normalize(ProviderMinistryAPI, rec.StateName, rawCounts{
		confirmed: string(rec.NewPositive),
		recovered: string(rec.NewCured),
		deceased:  string(rec.NewDeath),
		active:    string(rec.NewActive),
		hasActive: true,
	})
}

// MinistrySite normalizes a row scraped from the MoHFW website.
func (n *Normalizer) MinistrySite(row MinistrySiteRow) (RegionStat, error) {
	return n.normalize(ProviderMinistrySite, StripMarkers(row.Name), rawCounts{
		confirmed: cleanScrapedNumber(row.Confirmed),
		recovered: cleanScrapedNumber(row.Recovered),
		deceased:  cleanScrapedNumber(row.Deceased),
		active:    cleanScrapedNumber(row.Active),
		hasActive: true,

		blankUnassigned: true,
	})
}

// Disaster normalizes an NDMA feature. NDMA has no active field.
func (n *Normalizer) Disaster(f DisasterFeature) (RegionStat, error) {
	a := f.Attributes
	return n.normalize(ProviderDisasterAPI, a.StateName, rawCounts{
		confirmed: string(a.ConfirmedCases),
		recovered: string(a.CuredDischargedMigrated),
		deceased:  string(a.Deaths),
	})
}

func (n *Normalizer) normalize(p Provider, name string, raw rawCounts) (RegionStat, error) {
	region, match, ok := n.regions.Lookup(name)
	if !ok {
		return RegionStat{}, fmt.Errorf("%s: %q: %w", p, name, ErrNotFound)
	}
	allowBlank := raw.blankUnassigned && n.regions.IsUnassigned(region)

	var missing []Metric
	count := func(m Metric, field, v string) (int, error) {
		if allowBlank && strings.TrimSpace(v) == "" {
			missing = append(missing, m)
			return 0, nil
		}
		return parseNonNegative(p, name, field, v)
	}

	confirmed, err := count(MetricConfirmed, "confirmed", raw.confirmed)
	if err != nil {
		return RegionStat{}, err
	}
	recovered, err := count(MetricRecovered, "recovered", raw.recovered)
	if err != nil {
		return RegionStat{}, err
	}
	deceased, err := count(MetricDeceased, "deceased", raw.deceased)
	if err != nil {
		return RegionStat{}, err
	}

	stat := NewRegionStat(region, confirmed, recovered, deceased)
	stat.Reported = name
	stat.Match = match

	switch {
	case raw.hasActive && allowBlank && strings.TrimSpace(raw.active) == "":
		stat.Active = 0
		missing = append(missing, MetricActive)
	case raw.hasActive:
		active, err := parseCount(raw.active)
		if err != nil {
			return RegionStat{}, malformed(p, name, "active", err)
		}
		stat.Active = active
	case len(missing) > 0:
		stat.Active = 0
		missing = append(missing, MetricActive)
	}

	if len(missing) == 4 {
		return RegionStat{}, malformed(p, name, "counts", errMissingCount)
	}
	stat.Missing = missing
	return stat, nil
}

func parseNonNegative(p Provider, name, field, raw string) (int, error) {
	v, err := parseCount(raw)
	if err != nil {
		return 0, malformed(p, name, field, err)
	}
	if v < 0 {
		return 0, malformed(p, name, field, fmt.Errorf("negative count %d", v))
	}
	return v, nil
}

func malformed(p Provider, name, field string, err error) error {
	return fmt.Errorf("%s: %q: %s: %v: %w", p, name, field, err, ErrMalformedRecord)
}

// AggregatorAll normalizes every record, collecting the rejected ones.
func (n *Normalizer) AggregatorAll(recs []AggregatorRecord) ([]RegionStat, []Reject) {
	return normalizeAll(recs, ProviderAggregator, func(r AggregatorRecord) string { return r.State }, n.Aggregator)
}

// MinistryAll normalizes every MoHFW API record, collecting the rejected ones.
func (n *Normalizer) MinistryAll(recs []MinistryRecord) ([]RegionStat, []Reject) {
	return normalizeAll(recs, ProviderMinistryAPI, func(r MinistryRecord) string { return r.StateName }, n.Ministry)
}

// MinistrySiteAll normalizes every scraped row, collecting the rejected ones.
func (n *Normalizer) MinistrySiteAll(rows []MinistrySiteRow) ([]RegionStat, []Reject) {
	return normalizeAll(rows, ProviderMinistrySite, func(r MinistrySiteRow) string { return r.Name }, n.MinistrySite)
}

// DisasterAll normalizes every NDMA feature, collecting the rejected ones.
func (n *Normalizer) DisasterAll(features []DisasterFeature) ([]RegionStat, []Reject) {
	return normalizeAll(features, ProviderDisasterAPI, func(f DisasterFeature) string { return f.Attributes.StateName }, n.Disaster)
}

func normalizeAll[T any](recs []T, p Provider, name func(T) string, fn func(T) (RegionStat, error)) ([]RegionStat, []Reject) {
	stats := make([]RegionStat, 0, len(recs))
	var rejects []Reject
	for _, rec := range recs {
		stat, err := fn(rec)
		if err != nil {
			rejects = append(rejects, Reject{Provider: p, Name: name(rec), Err: err})
			continue
		}
		stats = append(stats, stat)
	}
	return stats, rejects
}

// Districts converts the district records of one state. District counts are
// kept as reported, negative values included.
func (n *Normalizer) Districts(sd StateDistricts) ([]DistrictStat, []Reject) {
	out := make([]DistrictStat, 0, len(sd.DistrictData))
	var rejects []Reject
	for _, d := range sd.DistrictData {
		stat, err := parseDistrict(d)
		if err != nil {
			rejects = append(rejects, Reject{Provider: ProviderAggregator, Name: d.District, Err: err})
			continue
		}
		out = append(out, stat)
	}
	return out, rejects
}

func parseDistrict(d DistrictRecord) (DistrictStat, error) {
	stat := DistrictStat{Name: collapseSpaces(d.District)}
	fields := []struct {
		name     string
		raw      Count
		dst      *int
		optional bool
	}{
		{name: "confirmed", raw: d.Confirmed, dst: &stat.Confirmed},
		{name: "active", raw: d.Active, dst: &stat.Active},
		{name: "recovered", raw: d.Recovered, dst: &stat.Recovered},
		{name: "deceased", raw: d.Deceased, dst: &stat.Deceased},
		{name: "delta confirmed", raw: d.Delta.Confirmed, dst: &stat.DeltaConfirmed, optional: true},
	}

	for _, f := range fields {
		if f.optional && f.raw == "" {
			continue
		}
		v, err := parseCount(string(f.raw))
		if err != nil {
			return DistrictStat{}, malformed(ProviderAggregator, d.District, f.name, err)
		}
		*f.dst = v
	}
	return stat, nil
}

// markerReplacer drops the footnote markers MoHFW appends to names and counts.
var markerReplacer = strings.NewReplacer("#", "", "*", "", "+", "")

// StripMarkers removes decorative markers ("#", "*", "+") and collapses
// whitespace.
func StripMarkers(s string) string {
	return collapseSpaces(markerReplacer.Replace(s))
}

// cleanScrapedNumber strips markers, whitespace and thousands separators.
func cleanScrapedNumber(s string) string {
	s = markerReplacer.Replace(s)
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), "")
}
