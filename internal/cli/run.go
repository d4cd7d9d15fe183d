package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/politikcred/internal/metrics"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/pipeline"
	"github.com/ppiankov/politikcred/internal/worker"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	concurrency int
	outputDir   string
	idsFile     string
	runAll      bool
	writeJSON   bool
	writeMD     bool
	metricsAddr string
	runTimeout  time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [politician-id...]",
	Short: "Match pending promises to actions and update the ledger",
	Long: `Run verifies politicians in parallel:
- Match each pending promise against the politician's recorded actions
- Route every match by confidence: auto-verify, human review or discard
- Append auto-verified outcomes to the credibility ledger
- Write a JSON and Markdown report per politician

Runs are safe to repeat: promises already verified are skipped and ledger
events are de-duplicated.

Example:
  politikcred run jean_dupont marie_martin
  politikcred run --file ids.txt --concurrency 8 --output-dir ./reports
  politikcred run --all --metrics-addr :9090`,
	RunE: runVerification,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of politicians verified in parallel")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default: output.dir)")
	runCmd.Flags().StringVar(&idsFile, "file", "", "read politician ids from a file (one per line)")
	runCmd.Flags().BoolVar(&runAll, "all", false, "verify every politician in the store")
	runCmd.Flags().BoolVar(&writeJSON, "json", true, "write JSON reports")
	runCmd.Flags().BoolVar(&writeMD, "md", true, "write Markdown reports")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "total timeout for the run")
}

func runVerification(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ids, err := resolveIDs(ctx, args, st)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return errors.New("no politicians to verify (pass ids, --file or --all)")
	}

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Warn("Metrics server stopped")
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	limiter := worker.NewLimiter(cfg.Embedding.RatePerSec, 1)
	engine, quota, err := pipeline.BuildEngine(ctx, cfg, st, limiter)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, st, engine, nil, quota)
	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  PolitikCred Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Politicians:  %d\n", len(ids))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Similarity:   %s\n", engine.Method())
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	if metricsAddr != "" {
		fmt.Fprintf(os.Stderr, "  Metrics:      http://%s/metrics\n", metricsAddr)
	}
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessPoliticians(ctx, ids)

	renderer := pipeline.NewRenderer()
	successCount, failureCount := 0, 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.PoliticianID, result.Error)
			continue
		}
		successCount++

		slug := sanitizeFilename(result.PoliticianID)
		if writeJSON {
			if err := renderer.RenderJSON(result.Report, filepath.Join(outputDir, slug+".json")); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.PoliticianID, err)
			}
		}
		if writeMD {
			if err := renderer.RenderMarkdown(result.Report, filepath.Join(outputDir, slug+".md")); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.PoliticianID, err)
			}
		}

		fmt.Fprintf(os.Stderr, "✓ ")
		renderer.RenderSummary(os.Stderr, result.Report)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Run Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d politicians\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	if quota != nil {
		fmt.Fprintf(os.Stderr, "  Quota:     %d embedding requests left this month\n", quota.Remaining())
	}
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d politicians failed", failureCount)
	}
	return nil
}

// politicianLister is the part of the store resolveIDs needs
type politicianLister interface {
	Politicians(ctx context.Context) ([]model.Politician, error)
}

// resolveIDs merges ids from arguments, --file and --all
func resolveIDs(ctx context.Context, args []string, st politicianLister) ([]string, error) {
	ids := append([]string(nil), args...)

	if idsFile != "" {
		fromFile, err := worker.ReadIDsFromFile(idsFile)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fromFile...)
	}

	if runAll {
		politicians, err := st.Politicians(ctx)
		if err != nil {
			return nil, fmt.Errorf("list politicians: %w", err)
		}
		for _, p := range politicians {
			ids = append(ids, p.ID)
		}
	}

	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	s = replacer.Replace(strings.TrimSpace(s))
	if s == "" || s == "." || s == ".." {
		return "report"
	}
	return s
}
