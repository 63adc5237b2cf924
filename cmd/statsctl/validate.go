package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/covid19-tracker-bot/internal/app"
	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check provider payloads against the region table",
	Long:  "Fetch every provider (or read --snapshot) and check that region names resolve, counts parse and districts map to a state. Exits non-zero on failure.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		regions, err := app.LoadRegions(e.cfg)
		if err != nil {
			return err
		}
		if !runValidate(cmd.Context(), cmd.OutOrStdout(), regions, app.NewSources(e.cfg, e.fetcher)) {
			return errors.New("validation failed")
		}
		return nil
	},
}

// phase tracks pass/fail for a validation phase. Notes are printed but do not
// fail the phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runValidate(ctx context.Context, w io.Writer, regions *domain.Registry, sources report.Sources) bool {
	fmt.Fprintln(w, "=== Provider Data Validation ===")
	fmt.Fprintln(w)

	n := domain.NewNormalizer(regions)
	phases := []*phase{validateRegionTable(regions)}

	if sources.Aggregator != nil {
		phases = append(phases, validateProvider(domain.ProviderAggregator, func() ([]domain.Reject, int, error) {
			recs, err := sources.Aggregator.Statewise(ctx)
			if err != nil {
				return nil, 0, err
			}
			stats, rejects := n.AggregatorAll(recs)
			return rejects, len(stats), nil
		}))
		phases = append(phases, validateDistricts(ctx, regions, n, sources.Aggregator))
	}
	if sources.Ministry != nil {
		phases = append(phases, validateProvider(domain.ProviderMinistryAPI, func() ([]domain.Reject, int, error) {
			recs, err := sources.Ministry.Records(ctx)
			if err != nil {
				return nil, 0, err
			}
			stats, rejects := n.MinistryAll(recs)
			return rejects, len(stats), nil
		}))
	}
	if sources.MinistrySite != nil {
		phases = append(phases, validateProvider(domain.ProviderMinistrySite, func() ([]domain.Reject, int, error) {
			rows, err := sources.MinistrySite.Rows(ctx)
			if err != nil {
				return nil, 0, err
			}
			stats, rejects := n.MinistrySiteAll(rows)
			return rejects, len(stats), nil
		}))
	}
	if sources.Disaster != nil {
		phases = append(phases, validateProvider(domain.ProviderDisasterAPI, func() ([]domain.Reject, int, error) {
			features, err := sources.Disaster.Features(ctx)
			if err != nil {
				return nil, 0, err
			}
			stats, rejects := n.DisasterAll(features)
			return rejects, len(stats), nil
		}))
	}

	allPassed := true
	for _, p := range phases {
		status := color.GreenString("PASS")
		if !p.passed() {
			status = color.RedString("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, note := range p.notes {
			fmt.Fprintf(w, "  note: %s\n", note)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}

// validateRegionTable checks that every listed region round-trips through its
// code and its name.
func validateRegionTable(regions *domain.Registry) *phase {
	p := &phase{name: "Region table"}
	listed := regions.Listed()
	if len(listed) == 0 {
		p.errorf("no listed regions")
	}
	for _, id := range listed {
		if got, ok := regions.ByCode(id.Code); !ok || got != id {
			p.errorf("code %s does not map back to %q", id.Code, id.Name)
		}
		got, err := regions.Resolve(id.Name)
		if err != nil {
			p.errorf("name %q does not resolve: %v", id.Name, err)
			continue
		}
		if got.Code != id.Code {
			p.errorf("name %q resolves to %s, listed as %s", id.Name, got.Code, id.Code)
		}
	}
	p.notef("%d listed regions", len(listed))
	return p
}

// validateProvider fetches and normalizes one provider. Unresolved names fail
// the phase; rows with unparseable counts are only noted because providers
// publish blank rows routinely.
func validateProvider(provider domain.Provider, load func() ([]domain.Reject, int, error)) *phase {
	p := &phase{name: fmt.Sprintf("%s names resolve", provider)}
	rejects, accepted, err := load()
	if err != nil {
		p.errorf("fetch: %v", err)
		return p
	}
	if accepted == 0 {
		p.errorf("no usable rows")
	}
	for _, r := range rejects {
		switch {
		case errors.Is(r.Err, domain.ErrNotFound):
			if strings.TrimSpace(r.Name) == "" {
				continue
			}
			p.errorf("%q: %v", r.Name, r.Err)
		default:
			p.notef("%q excluded: %v", r.Name, r.Err)
		}
	}
	p.notef("%d rows accepted", accepted)
	return p
}

// validateDistricts checks that each state in the district document maps to a
// region and reports the anomalies the recon command would list.
func validateDistricts(ctx context.Context, regions *domain.Registry, n *domain.Normalizer, agg report.AggregatorSource) *phase {
	p := &phase{name: "District states resolve"}
	states, err := agg.Districts(ctx)
	if err != nil {
		p.errorf("fetch: %v", err)
		return p
	}

	anomalies := map[domain.AnomalyKind]int{}
	for _, sd := range states {
		id, ok := regions.ByCode(sd.StateCode)
		if !ok {
			id, err = regions.Resolve(sd.State)
			if err != nil {
				p.errorf("state %q (%s): %v", sd.State, sd.StateCode, err)
				continue
			}
		}
		districts, rejects := n.Districts(sd)
		for _, r := range rejects {
			p.notef("%s/%s excluded: %v", id.Code, r.Name, r.Err)
		}
		for _, a := range domain.FindDistrictAnomalies(id, districts) {
			anomalies[a.Kind]++
		}
	}
	p.notef("%d states, %d unknown-district and %d negative-count anomalies",
		len(states), anomalies[domain.AnomalyUnknownDistrict], anomalies[domain.AnomalyNegativeCount])
	return p
}
