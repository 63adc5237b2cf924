package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/covid19-tracker-bot/internal/config"
	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/report"
)

// Reporter builds report texts.
type Reporter interface {
	NationalReport(ctx context.Context, metric domain.Metric) string
	RegionReport(ctx context.Context, codeOrName string) string
	ComparisonReport(ctx context.Context, pair report.ProviderPair, mode domain.Mode) string
	StateCodesReport() string
	ReconReport(ctx context.Context) string
}

// Dispatcher routes commands to reports.
type Dispatcher struct {
	reports         Reporter
	ministryDefault domain.Provider
	logger          *slog.Logger
}

// NewDispatcher creates a Dispatcher. ministrySource is config.MinistrySourceAPI
// or config.MinistrySourceSite and picks the MoHFW source used when a command
// names none.
func NewDispatcher(reports Reporter, ministrySource string, logger *slog.Logger) *Dispatcher {
	def := domain.ProviderMinistryAPI
	if ministrySource == config.MinistrySourceSite {
		def = domain.ProviderMinistrySite
	}
	return &Dispatcher{reports: reports, ministryDefault: def, logger: logger}
}

// Handle answers one chat text. Text that is not a command yields
// ErrNotACommand; anything else gets a reply, unknown commands included.
func (d *Dispatcher) Handle(ctx context.Context, text string) (Command, string, error) {
	cmd, err := ParseCommand(text)
	if err != nil {
		return Command{}, "", err
	}
	d.logger.Debug("command invoked", "command", cmd.Name, "args", cmd.Args)
	return cmd, d.dispatch(ctx, cmd), nil
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd Command) string {
	switch cmd.Name {
	case "start":
		return startText
	case "help":
		return helpText
	case "advanced":
		return advancedText
	case "statecodes":
		return d.reports.StateCodesReport()
	case "covid19india":
		return d.covid19india(ctx, cmd)
	case "mohfw":
		return d.reports.ComparisonReport(ctx, report.Against(d.ministrySource(cmd)), domain.ModeAbsolute)
	case "comparemohfw":
		return d.reports.ComparisonReport(ctx, report.Against(d.ministrySource(cmd)), domain.ModeDiff)
	case "ndma":
		if cmd.Keyword() == config.MinistrySourceSite {
			return ndmaSiteText
		}
		return d.reports.ComparisonReport(ctx, report.Against(domain.ProviderDisasterAPI), domain.ModeAbsolute)
	case "comparendma":
		return d.reports.ComparisonReport(ctx, report.Against(domain.ProviderDisasterAPI), domain.ModeDiff)
	case "recon":
		return d.reports.ReconReport(ctx)
	default:
		return unknownText
	}
}

// covid19india serves the national table, ordered by active cases unless a
// metric is named, or one region's districts.
func (d *Dispatcher) covid19india(ctx context.Context, cmd Command) string {
	if len(cmd.Args) == 0 {
		return d.reports.NationalReport(ctx, domain.MetricActive)
	}
	if metric, err := domain.ParseMetric(cmd.Rest()); err == nil {
		return d.reports.NationalReport(ctx, metric)
	}
	return d.reports.RegionReport(ctx, cmd.Rest())
}

func (d *Dispatcher) ministrySource(cmd Command) domain.Provider {
	switch cmd.Keyword() {
	case config.MinistrySourceAPI:
		return domain.ProviderMinistryAPI
	case config.MinistrySourceSite:
		return domain.ProviderMinistrySite
	default:
		return d.ministryDefault
	}
}

// Respond builds the reply to an inbound chat command.
func (d *Dispatcher) Respond(ctx context.Context, in domain.ChatCommand) (domain.ChatReply, error) {
	cmd, text, err := d.Handle(ctx, in.Text)
	if err != nil {
		return domain.ChatReply{}, fmt.Errorf("chat %d: %w", in.ChatID, err)
	}
	return domain.NewReply(in, cmd.Name, uuid.NewString(), text), nil
}
