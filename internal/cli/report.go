package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nurpe/contract-archive/internal/client"
	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/report"
	"github.com/nurpe/contract-archive/internal/state"
)

const flushTimeout = 10 * time.Second

type reportOutput struct {
	Dashboard model.DashboardStats `json:"dashboard"`
	Summary   model.ReportSummary  `json:"summary"`
}

func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print dashboard and summary figures computed from the server's collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			store := state.NewStore(client.NewGateway(rootOpts.Server, clientLogger(rootOpts)), clientLogger(rootOpts))
			store.Start(ctx)
			if err := store.Load(ctx); err != nil {
				return fmt.Errorf("load collections: %w", err)
			}
			if err := errors.Join(store.Contracts.Blocked(), store.ContractTypes.Blocked()); err != nil {
				return fmt.Errorf("load collections: %w", err)
			}

			now := time.Now()
			out := reportOutput{
				Dashboard: report.Dashboard(store.Contracts.Get(), now),
				Summary:   report.Summary(store.Contracts.Get(), store.ContractTypes.Get(), now),
			}

			flushCtx, flushCancel := context.WithTimeout(ctx, flushTimeout)
			defer flushCancel()
			if err := store.Flush(flushCtx); err != nil {
				return fmt.Errorf("sync users: %w", err)
			}

			if rootOpts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return writeReportText(cmd.OutOrStdout(), out)
		},
	}
}

func writeReportText(w io.Writer, out reportOutput) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	p.Fprintf(tw, "Contracts\t%d\n", out.Summary.Total)
	p.Fprintf(tw, "Created this month\t%d\n", out.Dashboard.ThisMonth)
	p.Fprintf(tw, "Expiring within 30 days\t%d\n", out.Dashboard.ExpiringSoon)
	p.Fprintf(tw, "Total value\t%.2f\n", out.Summary.TotalValue)
	p.Fprintf(tw, "Average value\t%.2f\n", out.Summary.AverageValue)

	sections := []struct {
		title string
		rows  []model.NamedCount
	}{
		{"By type", out.Summary.ByType},
		{"By status", out.Summary.ByStatus},
		{"By month", out.Summary.ByMonth},
	}
	for _, section := range sections {
		p.Fprintf(tw, "\n%s\t\t\n", section.title)
		for _, row := range section.rows {
			p.Fprintf(tw, "  %s\t%d\t%d%%\n", row.Name, row.Count, row.Percent)
		}
	}
	return tw.Flush()
}
