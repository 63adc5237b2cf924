package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/covid19-tracker-bot/internal/domain"
	"github.com/couchcryptid/covid19-tracker-bot/internal/report"
)

var (
	nationalMetric string
	compareDiff    bool
)

func init() {
	nationalCmd.Flags().StringVar(&nationalMetric, "metric", "active", "order regions by confirmed, active, recovered or deceased")
	compareCmd.Flags().BoolVar(&compareDiff, "diff", false, "show secondary minus covid19india.org instead of absolute values")
}

var nationalCmd = &cobra.Command{
	Use:   "national",
	Short: "All regions with the national total first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		metric, err := domain.ParseMetric(nationalMetric)
		if err != nil {
			return err
		}
		return runReport(cmd, func(ctx context.Context, svc *report.Service) string {
			return svc.NationalReport(ctx, metric)
		})
	},
}

var regionCmd = &cobra.Command{
	Use:   "region <code|name>",
	Short: "District figures for one region",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(ctx context.Context, svc *report.Service) string {
			return svc.RegionReport(ctx, strings.Join(args, " "))
		})
	},
}

var compareCmd = &cobra.Command{
	Use:       "compare <mohfw-api|mohfw-site|ndma-api>",
	Short:     "Compare covid19india.org with another provider",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.ProviderMinistryAPI), string(domain.ProviderMinistrySite), string(domain.ProviderDisasterAPI)},
	RunE: func(cmd *cobra.Command, args []string) error {
		secondary, err := domain.ParseProvider(args[0])
		if err != nil {
			return err
		}
		mode := domain.ModeAbsolute
		if compareDiff {
			mode = domain.ModeDiff
		}
		return runReport(cmd, func(ctx context.Context, svc *report.Service) string {
			return svc.ComparisonReport(ctx, report.Against(secondary), mode)
		})
	},
}

var stateCodesCmd = &cobra.Command{
	Use:   "statecodes",
	Short: "Codes accepted by the region command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReport(cmd, func(_ context.Context, svc *report.Service) string {
			return svc.StateCodesReport()
		})
	},
}

var reconCmd = &cobra.Command{
	Use:   "recon",
	Short: "Districts with suspicious values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReport(cmd, func(ctx context.Context, svc *report.Service) string {
			return svc.ReconReport(ctx)
		})
	},
}

// fixedFailures are report texts that mean the command failed.
var fixedFailures = map[string]bool{
	report.MsgUnavailable:   true,
	report.MsgInvalidRegion: true,
	report.MsgUnsupported:   true,
}

func runReport(cmd *cobra.Command, build func(context.Context, *report.Service) string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	svc, _, err := e.reports()
	if err != nil {
		return err
	}

	text := build(cmd.Context(), svc)
	if fixedFailures[text] {
		return errors.New(text)
	}
	return writeReport(cmd.OutOrStdout(), text, keepFences)
}

func writeReport(w io.Writer, text string, fences bool) error {
	if !fences {
		text = strings.TrimPrefix(text, "```\n")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSuffix(text, "\n")
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
