package domain

import "slices"

// Mode selects what a reconciliation row carries for the secondary source.
type Mode int

const (
	// ModeAbsolute passes the secondary values through.
	ModeAbsolute Mode = iota
	// ModeDiff reports secondary minus primary per field.
	ModeDiff
)

func (m Mode) String() string {
	if m == ModeDiff {
		return "diff"
	}
	return "absolute"
}

// Figure is one secondary-derived value. The zero Figure is unavailable,
// which is distinct from an available value of 0.
type Figure struct {
	value     int
	available bool
}

// Available returns a Figure holding v.
func Available(v int) Figure { return Figure{value: v, available: true} }

// Value returns the figure and whether it is available.
func (f Figure) Value() (int, bool) { return f.value, f.available }

// IsAvailable reports whether the figure holds a value.
func (f Figure) IsAvailable() bool { return f.available }

// Figures holds the four secondary-derived fields of a row.
type Figures struct {
	Confirmed Figure
	Recovered Figure
	Deceased  Figure
	Active    Figure
}

func figuresOf(s RegionStat) Figures {
	return Figures{
		Confirmed: figureOf(s, MetricConfirmed, s.Confirmed),
		Recovered: figureOf(s, MetricRecovered, s.Recovered),
		Deceased:  figureOf(s, MetricDeceased, s.Deceased),
		Active:    figureOf(s, MetricActive, s.Active),
	}
}

// figureOf returns v, or an unavailable Figure when s lacks m.
func figureOf(s RegionStat, m Metric, v int) Figure {
	if !s.Has(m) {
		return Figure{}
	}
	return Available(v)
}

// ReconciliationRow pairs a primary region with what the secondary source
// says about it.
type ReconciliationRow struct {
	Region    RegionIdentity
	Primary   RegionStat
	Secondary Figures

	// Match records how the secondary entry was found. MatchNone means the
	// secondary had no entry and every figure is unavailable.
	Match MatchKind
}

// Unavailable reports whether the secondary had no matching entry.
func (r ReconciliationRow) Unavailable() bool { return r.Match == MatchNone }

// Options control a reconciliation.
type Options struct {
	Mode Mode

	// RederiveActive recomputes the secondary's active count from its
	// confirmed, recovered and deceased counts before use.
	RederiveActive bool
}

// Result is the output of Reconcile.
type Result struct {
	Rows []ReconciliationRow

	// Duplicates lists secondary entries ignored because an earlier entry
	// already claimed the same region.
	Duplicates []RegionStat

	// Skipped lists primary regions left out of Rows. Only the unassigned
	// bucket is ever skipped, and only when the secondary has no such bucket.
	Skipped []RegionIdentity
}

// Reconciler joins two normalized datasets by region identity.
type Reconciler struct {
	regions *Registry
}

// NewReconciler returns a Reconciler using regions for identity and merges.
func NewReconciler(regions *Registry) *Reconciler {
	return &Reconciler{regions: regions}
}

type secondaryIndex struct {
	direct map[string]RegionStat
	alias  map[string]RegionStat
}

// Reconcile produces one row per primary region, in primary order. Secondary
// entries are matched by canonical name, then alias, then by summing every
// historical part of a merged region. Regions found only in the secondary
// never produce rows.
func (rc *Reconciler) Reconcile(primary, secondary []RegionStat, opts Options) Result {
	var res Result
	idx := secondaryIndex{
		direct: make(map[string]RegionStat, len(secondary)),
		alias:  make(map[string]RegionStat),
	}

	// Each code is claimed by the first secondary entry naming it, in any tier.
	claimed := make(map[string]bool, len(secondary))
	for _, s := range secondary {
		code := s.Region.Code
		if code == "" {
			continue
		}
		if claimed[code] {
			res.Duplicates = append(res.Duplicates, s)
			continue
		}
		claimed[code] = true
		if s.Match == MatchAlias {
			idx.alias[code] = s
		} else {
			idx.direct[code] = s
		}
	}

	for _, p := range primary {
		stat, match := rc.find(idx, p.Region)
		if match == MatchNone && rc.regions.IsUnassigned(p.Region) {
			res.Skipped = append(res.Skipped, p.Region)
			continue
		}

		row := ReconciliationRow{Region: p.Region, Primary: p, Match: match}
		if match != MatchNone {
			row.Secondary = secondaryFigures(p, stat, opts)
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func (rc *Reconciler) find(idx secondaryIndex, region RegionIdentity) (RegionStat, MatchKind) {
	if s, ok := idx.direct[region.Code]; ok {
		return s, MatchCanonical
	}
	if s, ok := idx.alias[region.Code]; ok {
		return s, MatchAlias
	}

	parts := rc.regions.Parts(region.Code)
	if len(parts) == 0 {
		return RegionStat{}, MatchNone
	}
	merged := RegionStat{Region: region}
	for _, part := range parts {
		s, ok := idx.direct[part.Code]
		if !ok {
			s, ok = idx.alias[part.Code]
		}
		if !ok {
			return RegionStat{}, MatchNone
		}
		merged.Confirmed += s.Confirmed
		merged.Recovered += s.Recovered
		merged.Deceased += s.Deceased
		merged.Active += s.Active
		for _, m := range s.Missing {
			if merged.Has(m) {
				merged.Missing = append(merged.Missing, m)
			}
		}
	}
	return merged, MatchMerged
}

func secondaryFigures(p, s RegionStat, opts Options) Figures {
	if opts.RederiveActive {
		s.Active = DeriveActive(s.Confirmed, s.Recovered, s.Deceased)
		if len(s.Missing) > 0 && s.Has(MetricActive) {
			s.Missing = append(slices.Clone(s.Missing), MetricActive)
		}
	}
	if opts.Mode == ModeAbsolute {
		return figuresOf(s)
	}
	return Figures{
		Confirmed: figureOf(s, MetricConfirmed, s.Confirmed-p.Confirmed),
		Recovered: figureOf(s, MetricRecovered, s.Recovered-p.Recovered),
		Deceased:  figureOf(s, MetricDeceased, s.Deceased-p.Deceased),
		Active:    figureOf(s, MetricActive, s.Active-p.Active),
	}
}
