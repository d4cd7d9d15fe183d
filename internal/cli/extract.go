package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/politikcred/internal/extract"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/pipeline"
	"github.com/ppiankov/politikcred/internal/similarity"
	"github.com/ppiankov/politikcred/internal/validate"
	"github.com/ppiankov/politikcred/internal/worker"
	"github.com/spf13/cobra"
)

const maxDocumentBytes = 10 << 20

var (
	sourceURL      string
	dryRun         bool
	extractTimeout time.Duration
	extractJSON    bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <politician-id> <url|file>",
	Short: "Extract promises from a speech, programme or interview",
	Long: `Extract fetches a source document (or reads a local file), finds the
sentences that are commitments and stores them for the politician.

The source URL is checked before the promises are stored. Dead links are
replaced by their web archive copy; the authority of the domain is recorded.

Example:
  politikcred extract jean_dupont https://example.fr/discours-2024
  politikcred extract jean_dupont programme.txt --source https://example.fr/programme.pdf
  politikcred extract jean_dupont programme.txt --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&sourceURL, "source", "", "citation URL for a local file")
	extractCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the extracted promises without storing them")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the result as JSON")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "timeout for fetching and checking the source")
}

func runExtract(cmd *cobra.Command, args []string) error {
	politicianID, target := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	doc, err := loadDocument(ctx, cfg, target)
	if err != nil {
		return err
	}

	if dryRun {
		return printDryRun(doc)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var checker pipeline.SourceChecker
	if cfg.Validation.Enabled {
		checker = newValidator(cfg)
	}
	engine := similarity.NewEngine(nil, similarity.NewKeywordStrategy())
	p := pipeline.NewPipeline(cfg, st, engine, checker, nil)

	result, err := p.Ingest(ctx, politicianID, doc)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", target, err)
	}

	if extractJSON {
		return printJSON(result)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Politician:   %s\n", result.PoliticianID)
	if result.Source.URL != "" {
		fmt.Fprintf(os.Stderr, "  Source:       %s\n", result.Source.URL)
		if result.Source.EffectiveURL != result.Source.URL {
			fmt.Fprintf(os.Stderr, "  Cited as:     %s\n", result.Source.EffectiveURL)
		}
		fmt.Fprintf(os.Stderr, "  Authority:    %s\n", result.Source.Authority)
	}
	if result.Outcome != "" {
		fmt.Fprintf(os.Stderr, "  Check:        %s\n", result.Outcome)
	}
	fmt.Fprintf(os.Stderr, "  Extracted:    %d\n", result.Extracted)
	fmt.Fprintf(os.Stderr, "  New:          %d\n", result.Saved)
	fmt.Fprintf(os.Stderr, "\n")

	for _, promise := range result.Promises {
		fmt.Printf("- [%s] %s\n", promise.Category, promise.Text)
	}
	return nil
}

// loadDocument fetches a URL or reads a local file
func loadDocument(ctx context.Context, cfg *model.Config, target string) (*pipeline.Document, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		fmt.Fprintf(os.Stderr, "⚙️  Fetching %s...\n", target)
		fetcher := pipeline.NewFetcher(cfg.Validation.Timeout, cfg.Validation.UserAgent, maxDocumentBytes,
			cfg.Validation.HTTPProxy, cfg.Validation.HTTPSProxy)
		doc, err := fetcher.FetchWithRetry(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", target, err)
		}
		return doc, nil
	}

	doc, err := pipeline.LoadFile(target, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return doc, nil
}

// newValidator builds a source validator sharing one per-host limiter
func newValidator(cfg *model.Config) *validate.Validator {
	opts := validate.OptionsFromConfig(cfg.Validation, cfg.Authority)
	opts.Limiter = worker.NewLimiter(cfg.Validation.RatePerSec, cfg.Validation.Burst)
	return validate.NewValidator(opts)
}

func printDryRun(doc *pipeline.Document) error {
	classifier := extract.NewClassifier()
	source := model.SourceReference{URL: doc.URL, EffectiveURL: doc.URL, Usable: doc.URL != ""}

	var promises []model.PromiseCandidate
	if doc.HTML {
		extracted, err := classifier.ExtractPromisesFromHTML(doc.Body, source)
		if err != nil {
			return fmt.Errorf("extract promises: %w", err)
		}
		promises = extracted
	} else {
		promises = classifier.ExtractPromises(doc.Body, source)
	}

	if extractJSON {
		return printJSON(promises)
	}

	fmt.Fprintf(os.Stderr, "✓ %d promises (dry run, nothing stored)\n\n", len(promises))
	for _, promise := range promises {
		actionable := ""
		if !promise.IsActionable {
			actionable = " (not actionable)"
		}
		fmt.Printf("- [%s] %s%s\n", promise.Category, promise.Text, actionable)
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
