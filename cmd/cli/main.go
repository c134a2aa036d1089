package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &apiClient{out: out}

	rootCmd := &cobra.Command{
		Use:           "agroledger-cli",
		Short:         "AgroLedger CLI tool",
		Long:          `A command line interface for operating the AgroLedger API: reconciliation, interest runs and overdue sweeps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.baseURL, "url", "http://localhost:8080", "Base URL of the AgroLedger API")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(c), interestCmd(c), loansCmd(c))
	return rootCmd
}

func ledgerCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Party ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance <party-id>",
		Short: "Show a party's current balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp map[string]any
			if err := c.get(cmd.Context(), "/api/v1/parties/"+args[0]+"/balance", nil, &resp); err != nil {
				return err
			}
			return c.printJSON(resp)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile <party-id>",
		Short: "Replay a party ledger and verify stored balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp reconciliation
			err := c.post(cmd.Context(), "/api/v1/parties/"+args[0]+"/reconcile", nil, &resp)
			if resp.PartyID != "" {
				c.printReconciliation(resp)
			}
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "release <party-id>",
		Short: "Clear the corruption halt on a party",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.post(cmd.Context(), "/api/v1/parties/"+args[0]+"/release", nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Released %s\n", args[0])
			return nil
		},
	})

	var orgID string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reconcile every party of an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				OrganizationID    string           `json:"organization_id"`
				TotalParties      int              `json:"total_parties"`
				ReconciledParties int              `json:"reconciled_parties"`
				Discrepancies     []reconciliation `json:"discrepancies"`
			}
			if err := c.get(cmd.Context(), "/api/v1/reconciliation", map[string]string{"organization_id": orgID}, &resp); err != nil {
				return err
			}

			fmt.Fprintf(c.out, "Organization: %s\n", resp.OrganizationID)
			fmt.Fprintf(c.out, "Reconciled: %d/%d\n", resp.ReconciledParties, resp.TotalParties)
			for _, d := range resp.Discrepancies {
				c.printReconciliation(d)
			}
			return nil
		},
	}
	reportCmd.Flags().StringVar(&orgID, "org", "", "Organization ID")
	_ = reportCmd.MarkFlagRequired("org")
	cmd.AddCommand(reportCmd)

	return cmd
}

type periodFlags struct {
	orgID string
	from  string
	to    string
	rate  string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.orgID, "org", "", "Organization ID")
	cmd.Flags().StringVar(&p.from, "from", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.to, "to", "", "Window end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.rate, "rate", "", "Rate per month in percent")
	for _, name := range []string{"org", "from", "to", "rate"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func interestCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Interest charts and postings",
	}

	var (
		chart  periodFlags
		xlsxTo string
	)
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute the organization interest chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{
				"organization_id": chart.orgID,
				"from":            chart.from,
				"to":              chart.to,
				"rate":            chart.rate,
			}
			if xlsxTo != "" {
				query["format"] = "xlsx"
				data, err := c.download(cmd.Context(), "/api/v1/interest/chart", query)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxTo, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", xlsxTo, err)
				}
				fmt.Fprintf(c.out, "Wrote %s (%d bytes)\n", xlsxTo, len(data))
				return nil
			}

			var resp []map[string]any
			if err := c.get(cmd.Context(), "/api/v1/interest/chart", query, &resp); err != nil {
				return err
			}
			return c.printJSON(resp)
		},
	}
	chart.register(chartCmd)
	chartCmd.Flags().StringVar(&xlsxTo, "xlsx", "", "Write the chart workbook to this file")
	cmd.AddCommand(chartCmd)

	var (
		post     periodFlags
		postDate string
	)
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Post one INTEREST entry per party for a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"organization_id": post.orgID,
				"from":            post.from,
				"to":              post.to,
				"rate":            post.rate,
				"post_date":       postDate,
			}
			var entries []map[string]any
			if err := c.post(cmd.Context(), "/api/v1/interest/post", req, &entries); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Posted %d interest entries\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(c.out, "  %-26s %12v\n", truncate(fmt.Sprint(e["party_id"]), 26), e["debit_amount"])
			}
			return nil
		},
	}
	post.register(postCmd)
	postCmd.Flags().StringVar(&postDate, "post-date", "", "Entry date (YYYY-MM-DD), defaults to the window end")
	cmd.AddCommand(postCmd)

	return cmd
}

func loansCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Loan operations",
	}

	var orgID, asOf string
	overdueCmd := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Flag open loans past their due horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			var loans []map[string]any
			req := map[string]string{"organization_id": orgID, "as_of": asOf}
			if err := c.post(cmd.Context(), "/api/v1/loans/overdue", req, &loans); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Marked %d loans overdue\n", len(loans))
			for _, l := range loans {
				fmt.Fprintf(c.out, "  %s  party=%v outstanding=%v\n", l["id"], l["party_id"], l["outstanding_balance"])
			}
			return nil
		},
	}
	overdueCmd.Flags().StringVar(&orgID, "org", "", "Organization ID")
	overdueCmd.Flags().StringVar(&asOf, "as-of", "", "Evaluation date (YYYY-MM-DD), defaults to today")
	_ = overdueCmd.MarkFlagRequired("org")
	cmd.AddCommand(overdueCmd)

	return cmd
}

type reconciliation struct {
	PartyID         string `json:"party_id"`
	EntryCount      int    `json:"entry_count"`
	StoredBalance   string `json:"stored_balance"`
	ReplayedBalance string `json:"replayed_balance"`
	FailedSerial    int64  `json:"failed_serial"`
	IsReconciled    bool   `json:"is_reconciled"`
	Halted          bool   `json:"halted"`
	Detail          string `json:"detail"`
}

func (c *apiClient) printReconciliation(r reconciliation) {
	status := "OK"
	if !r.IsReconciled {
		status = "MISMATCH"
	}
	if r.Halted {
		status += " (halted)"
	}
	fmt.Fprintf(c.out, "%-26s %-18s entries=%d stored=%s replayed=%s\n",
		truncate(r.PartyID, 26), status, r.EntryCount, r.StoredBalance, r.ReplayedBalance)
	if r.Detail != "" {
		fmt.Fprintf(c.out, "  serial %d: %s\n", r.FailedSerial, truncate(r.Detail, 100))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
