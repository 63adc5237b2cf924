package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/observability"
)

// AggregatorSource provides covid19india.org documents.
type AggregatorSource interface {
	Statewise(ctx context.Context) ([]domain.AggregatorRecord, error)
	Districts(ctx context.Context) ([]domain.StateDistricts, error)
}

// MinistrySource provides the MoHFW API feed.
type MinistrySource interface {
	Records(ctx context.Context) ([]domain.MinistryRecord, error)
}

// MinistrySiteSource provides the table scraped from the MoHFW website.
type MinistrySiteSource interface {
	Rows(ctx context.Context) ([]domain.MinistrySiteRow, error)
}

// DisasterSource provides the NDMA feature service.
type DisasterSource interface {
	Features(ctx context.Context) ([]domain.DisasterFeature, error)
}

// Sources groups the provider collaborators.
type Sources struct {
	Aggregator   AggregatorSource
	Ministry     MinistrySource
	MinistrySite MinistrySiteSource
	Disaster     DisasterSource
}

// ProviderPair names the two sides of a comparison.
type ProviderPair struct {
	Primary   domain.Provider
	Secondary domain.Provider
}

// Against pairs the aggregator, the only supported primary, with secondary.
func Against(secondary domain.Provider) ProviderPair {
	return ProviderPair{Primary: domain.ProviderAggregator, Secondary: secondary}
}

var errUnsupportedPair = errors.New("unsupported provider pair")

// Service builds chat reports. Every report method returns text ready to
// send; failures become one of the fixed messages.
type Service struct {
	regions    *domain.Registry
	normalizer *domain.Normalizer
	reconciler *domain.Reconciler
	sources    Sources
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewService creates a Service.
func NewService(regions *domain.Registry, sources Sources, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		regions:    regions,
		normalizer: domain.NewNormalizer(regions),
		reconciler: domain.NewReconciler(regions),
		sources:    sources,
		metrics:    metrics,
		logger:     logger,
	}
}

// NationalReport lists every region ranked by metric, with the national total
// first.
func (s *Service) NationalReport(ctx context.Context, metric domain.Metric) string {
	const kind = "national"

	stats, err := s.aggregatorStats(ctx)
	if err != nil {
		return s.unavailable(kind, err)
	}

	total, rest := domain.SplitAggregate(stats, s.regions)
	rows := make([][]string, 0, len(stats))
	if total != nil {
		rows = append(rows, statRow(nationalSummaryLabel, *total))
	}
	for _, st := range domain.Rank(rest, metric) {
		rows = append(rows, statRow(st.Region.Name, st))
	}

	s.done(kind, "ok", "metric", metric.String(), "rows", len(rows))
	return nationalTable.Render(rows)
}

func statRow(label string, st domain.RegionStat) []string {
	return []string{
		label,
		FormatCount(st.Confirmed),
		FormatCount(st.Recovered),
		FormatCount(st.Deceased),
		FormatCount(st.Active),
	}
}

// RegionReport lists the districts of one region, given as a code or a name.
// Any region listed by StateCodesReport is accepted.
func (s *Service) RegionReport(ctx context.Context, codeOrName string) string {
	const kind = "region"

	region, err := s.regions.ResolveCodeOrName(codeOrName)
	if err != nil || !listable(s.regions.Kind(region)) {
		s.done(kind, "invalid", "region", codeOrName)
		return MsgInvalidRegion
	}

	states, err := s.sources.Aggregator.Districts(ctx)
	if err != nil {
		return s.unavailable(kind, err)
	}

	for _, sd := range states {
		if s.districtRegion(sd) != region {
			continue
		}
		districts, rejects := s.normalizer.Districts(sd)
		s.recordRejects(rejects)

		rows := make([][]string, 0, len(districts))
		for _, d := range districts {
			rows = append(rows, []string{d.Name, FormatCount(d.Confirmed), FormatCount(d.DeltaConfirmed)})
		}
		s.done(kind, "ok", "region", region.Code, "rows", len(rows))
		return districtTable(region.Name).Render(rows)
	}

	s.done(kind, "ok", "region", region.Code, "rows", 0)
	return fmt.Sprintf("No district data for %s.", region.Name)
}

func listable(k domain.RegionKind) bool {
	return k == domain.KindState || k == domain.KindUnassigned
}

// districtRegion resolves the state of a district document by code, falling
// back to its name. Unresolvable states keep their reported code and name.
func (s *Service) districtRegion(sd domain.StateDistricts) domain.RegionIdentity {
	if id, ok := s.regions.ByCode(sd.StateCode); ok {
		return id
	}
	if id, err := s.regions.Resolve(sd.State); err == nil {
		return id
	}
	return domain.RegionIdentity{Code: strings.ToUpper(sd.StateCode), Name: sd.State}
}

// ComparisonReport reconciles the aggregator against a secondary provider.
// Rows follow the aggregator's regions ranked by active cases; the national
// total is left out.
func (s *Service) ComparisonReport(ctx context.Context, pair ProviderPair, mode domain.Mode) string {
	const kind = "compare"

	if err := s.checkPair(pair); err != nil {
		s.done(kind, "unsupported", "secondary", pair.Secondary)
		return MsgUnsupported
	}

	var (
		primary   []domain.RegionStat
		secondary []domain.RegionStat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.aggregatorStats(gctx)
		primary = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.secondaryStats(gctx, pair.Secondary)
		secondary = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return s.unavailable(kind, err)
	}

	_, primary = domain.SplitAggregate(primary, s.regions)
	primary = domain.Rank(primary, domain.MetricActive)

	res := s.reconciler.Reconcile(primary, secondary, domain.Options{
		Mode:           mode,
		RederiveActive: pair.Secondary == domain.ProviderDisasterAPI,
	})
	s.recordReconciliation(pair.Secondary, res)

	s.done(kind, "ok", "secondary", pair.Secondary, "mode", mode.String(), "rows", len(res.Rows))
	return renderComparison(pair.Secondary, mode, res.Rows)
}

func (s *Service) checkPair(pair ProviderPair) error {
	if pair.Primary != domain.ProviderAggregator {
		return errUnsupportedPair
	}
	switch pair.Secondary {
	case domain.ProviderMinistryAPI:
		if s.sources.Ministry == nil {
			return errUnsupportedPair
		}
	case domain.ProviderMinistrySite:
		if s.sources.MinistrySite == nil {
			return errUnsupportedPair
		}
	case domain.ProviderDisasterAPI:
		if s.sources.Disaster == nil {
			return errUnsupportedPair
		}
	default:
		return errUnsupportedPair
	}
	return nil
}

func renderComparison(secondary domain.Provider, mode domain.Mode, rows []domain.ReconciliationRow) string {
	out := make([][]string, 0, len(rows))

	if secondary == domain.ProviderDisasterAPI {
		for _, r := range rows {
			out = append(out, []string{
				r.Region.Name,
				FormatFigure(r.Secondary.Confirmed, mode),
				FormatFigure(r.Secondary.Recovered, mode),
				FormatFigure(r.Secondary.Deceased, mode),
			})
		}
		return disasterTable(comparisonTitle("NDMA", "API", mode)).Render(out)
	}

	for _, r := range rows {
		out = append(out, []string{
			r.Region.Code,
			FormatFigure(r.Secondary.Active, mode),
			FormatFigure(r.Secondary.Recovered, mode),
			FormatFigure(r.Secondary.Deceased, mode),
			FormatFigure(r.Secondary.Confirmed, mode),
		})
	}
	source := "API"
	if secondary == domain.ProviderMinistrySite {
		source = "Site"
	}
	return ministryTable(comparisonTitle("MOHFW", source, mode)).Render(out)
}

func comparisonTitle(provider, source string, mode domain.Mode) string {
	if mode == domain.ModeDiff {
		return fmt.Sprintf("%s minus covid19india.org (%s):", provider, source)
	}
	return fmt.Sprintf("%s Reports (%s):", provider, source)
}

// StateCodesReport lists the codes users can pass to RegionReport.
func (s *Service) StateCodesReport() string {
	lines := []string{SiteLink, "", "State codes", ""}
	for _, id := range s.regions.Listed() {
		lines = append(lines, id.Code+": "+id.Name)
	}
	s.done("statecodes", "ok")
	return Block(lines...)
}

// ReconReport lists districts with suspicious values: Unknown districts
// holding counts first, then districts with negative counts.
func (s *Service) ReconReport(ctx context.Context) string {
	const kind = "recon"

	states, err := s.sources.Aggregator.Districts(ctx)
	if err != nil {
		return s.unavailable(kind, err)
	}

	var unknown, negative []domain.DistrictAnomaly
	for _, sd := range states {
		districts, rejects := s.normalizer.Districts(sd)
		s.recordRejects(rejects)
		for _, a := range domain.FindDistrictAnomalies(s.districtRegion(sd), districts) {
			if a.Kind == domain.AnomalyUnknownDistrict {
				unknown = append(unknown, a)
			} else {
				negative = append(negative, a)
			}
		}
	}

	lines := append([]string(nil), reconHeader...)
	for _, a := range unknown {
		lines = append(lines, reconLines(a)...)
	}
	lines = append(lines, reconRule)
	for _, a := range negative {
		lines = append(lines, reconLines(a)...)
	}

	s.done(kind, "ok", "unknown", len(unknown), "negative", len(negative))
	return Block(lines...)
}

func reconLines(a domain.DistrictAnomaly) []string {
	d := a.District
	return []string{
		reconCode.Cell(a.Region.Code) + "|" + reconDistrict.Cell(d.Name) + "|" +
			reconCount.Cell(FormatCount(d.Confirmed)) + "|" + reconCount.Cell(FormatCount(d.Active)) + "|",
		reconFiller + "|" + reconCount.Cell(FormatCount(d.Recovered)) + "|" + reconCount.Cell(FormatCount(d.Deceased)) + "|",
	}
}

// aggregatorStats fetches and normalizes the aggregator statewise data. An
// empty result counts as unavailable.
func (s *Service) aggregatorStats(ctx context.Context) ([]domain.RegionStat, error) {
	recs, err := s.sources.Aggregator.Statewise(ctx)
	if err != nil {
		return nil, err
	}
	stats, rejects := s.normalizer.AggregatorAll(recs)
	s.recordRejects(rejects)
	if len(stats) == 0 {
		return nil, fmt.Errorf("%s: no usable rows: %w", domain.ProviderAggregator, domain.ErrFetchFailed)
	}
	return stats, nil
}

func (s *Service) secondaryStats(ctx context.Context, p domain.Provider) ([]domain.RegionStat, error) {
	var (
		stats   []domain.RegionStat
		rejects []domain.Reject
	)
	switch p {
	case domain.ProviderMinistryAPI:
		recs, err := s.sources.Ministry.Records(ctx)
		if err != nil {
			return nil, err
		}
		stats, rejects = s.normalizer.MinistryAll(recs)
	case domain.ProviderMinistrySite:
		rows, err := s.sources.MinistrySite.Rows(ctx)
		if err != nil {
			return nil, err
		}
		stats, rejects = s.normalizer.MinistrySiteAll(rows)
	case domain.ProviderDisasterAPI:
		features, err := s.sources.Disaster.Features(ctx)
		if err != nil {
			return nil, err
		}
		stats, rejects = s.normalizer.DisasterAll(features)
	default:
		return nil, errUnsupportedPair
	}
	s.recordRejects(rejects)
	return stats, nil
}

func (s *Service) recordRejects(rejects []domain.Reject) {
	for _, r := range rejects {
		reason := "malformed"
		if errors.Is(r.Err, domain.ErrNotFound) {
			reason = "not_found"
		}
		s.metrics.RowsExcluded.WithLabelValues(string(r.Provider), reason).Inc()
		s.logger.Warn("provider row excluded",
			"provider", r.Provider,
			"region", r.Name,
			"reason", reason,
			"error", r.Err,
		)
	}
}

func (s *Service) recordReconciliation(secondary domain.Provider, res domain.Result) {
	for _, d := range res.Duplicates {
		s.metrics.RowsExcluded.WithLabelValues(string(secondary), "duplicate").Inc()
		s.logger.Warn("duplicate region in secondary source, keeping first",
			"provider", secondary, "region", d.Region.Code, "reported", d.Reported)
	}
	for _, id := range res.Skipped {
		s.metrics.RowsExcluded.WithLabelValues(string(domain.ProviderAggregator), "skipped").Inc()
		s.logger.Debug("region skipped, no equivalent in secondary source",
			"provider", secondary, "region", id.Code)
	}
}

func (s *Service) unavailable(kind string, err error) string {
	s.metrics.Reports.WithLabelValues(kind, "unavailable").Inc()
	s.logger.Error("report unavailable", "report", kind, "error", err)
	return MsgUnavailable
}

func (s *Service) done(kind, outcome string, attrs ...any) {
	s.metrics.Reports.WithLabelValues(kind, outcome).Inc()
	s.logger.Info("report generated", append([]any{"report", kind, "outcome", outcome}, attrs...)...)
}
