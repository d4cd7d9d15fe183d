package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/score"
	"github.com/ppiankov/politikcred/internal/store"
	"github.com/spf13/cobra"
)

var (
	ledgerJSON  bool
	ledgerAudit bool
)

// ledgerCmd represents the ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger <politician-id>",
	Short: "Show a politician's credibility ledger",
	Long: `Print every ledger entry of a politician in order, with the score before
and after, the reason and the sources.

With --audit the entries are replayed from the baseline and the chain of
previous/new scores is checked against the stored current score.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		politicianID := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		scale := cfg.Ledger.Scale

		return withStore(func(ctx context.Context, st store.Store) error {
			entries, err := st.LedgerEntries(ctx, politicianID)
			if err != nil {
				return fmt.Errorf("load ledger: %w", err)
			}

			if ledgerJSON {
				return printJSON(entries)
			}

			printLedger(politicianID, entries)

			if ledgerAudit {
				return auditLedger(ctx, st, scale, politicianID, entries)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().BoolVar(&ledgerJSON, "json", false, "print entries as JSON")
	ledgerCmd.Flags().BoolVar(&ledgerAudit, "audit", false, "replay the ledger and verify the score chain")
}

func printLedger(politicianID string, entries []model.LedgerEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "No ledger entries for %s\n", politicianID)
		return
	}

	for _, e := range entries {
		fmt.Printf("%s  %7.2f -> %7.2f  (%+.2f)  %-20s %s\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.PreviousScore, e.NewScore, e.ScoreDelta,
			e.ChangeReason, e.Description)
		if len(e.Sources) > 0 {
			fmt.Printf("    sources: %s\n", strings.Join(e.Sources, ", "))
		}
	}
}

func auditLedger(ctx context.Context, st store.Store, scale model.Scale, politicianID string, entries []model.LedgerEntry) error {
	if err := score.Audit(scale, entries); err != nil {
		return fmt.Errorf("ledger audit failed: %w", err)
	}

	replayed := score.Replay(scale, entries)
	current, ok, err := st.CurrentScore(ctx, politicianID)
	if err != nil {
		return fmt.Errorf("load current score: %w", err)
	}
	if !ok {
		current = scale.Baseline
	}
	if score.Cents(replayed) != score.Cents(current) {
		return fmt.Errorf("ledger audit failed: replay gives %.2f, stored score is %.2f", replayed, current)
	}

	fmt.Fprintf(os.Stderr, "✓ Ledger consistent: %d entries, score %.2f\n", len(entries), current)
	return nil
}
