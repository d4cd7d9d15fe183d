package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// actionNamespace derives stable ids for imported actions without one
var actionNamespace = uuid.MustParse("a3f1c6d2-7b4e-5f08-9c21-6e8d0b47f512")

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import politicians and legislative actions",
	Long: `Import reads JSON or YAML files (chosen by extension) into the store.

Example:
  politikcred import politicians deputes.yaml
  politikcred import actions jean_dupont votes.json`,
}

var importPoliticiansCmd = &cobra.Command{
	Use:   "politicians <file>",
	Short: "Import a politician roster",
	Long: `Import a roster of politicians. Records without a name or position are
skipped, duplicates (same first and last name) are dropped, the political
orientation is derived from the party and the credibility score starts at
the baseline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var roster []model.Politician
		if err := decodeFile(args[0], &roster); err != nil {
			return err
		}

		cleaned := model.CleanPoliticians(roster)

		return withStore(func(ctx context.Context, st store.Store) error {
			for _, p := range cleaned {
				if err := st.SavePolitician(ctx, p); err != nil {
					return fmt.Errorf("save politician %s: %w", p.ID, err)
				}
			}
			fmt.Fprintf(os.Stderr, "✓ Imported %d politicians (%d skipped)\n", len(cleaned), len(roster)-len(cleaned))
			return nil
		})
	},
}

var importActionsCmd = &cobra.Command{
	Use:   "actions <politician-id> <file>",
	Short: "Import recorded votes and legislative acts for a politician",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		politicianID := args[0]

		var raw []rawAction
		if err := decodeFile(args[1], &raw); err != nil {
			return err
		}

		actions := make([]model.Action, 0, len(raw))
		for _, r := range raw {
			actions = append(actions, r.toAction(politicianID))
		}

		return withStore(func(ctx context.Context, st store.Store) error {
			if _, ok, err := st.Politician(ctx, politicianID); err != nil {
				return fmt.Errorf("load politician: %w", err)
			} else if !ok {
				return fmt.Errorf("unknown politician: %s (import the roster first)", politicianID)
			}
			if err := st.SaveActions(ctx, actions); err != nil {
				return fmt.Errorf("save actions: %w", err)
			}
			fmt.Fprintf(os.Stderr, "✓ Imported %d actions for %s\n", len(actions), politicianID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importPoliticiansCmd)
	importCmd.AddCommand(importActionsCmd)
}

// rawAction accepts free-form labels as published in open data exports
type rawAction struct {
	ID           string `json:"id" yaml:"id"`
	Description  string `json:"description" yaml:"description"`
	Category     string `json:"category" yaml:"category"`
	VotePosition string `json:"vote_position" yaml:"vote_position"`
	BillTitle    string `json:"bill_title" yaml:"bill_title"`
}

func (r rawAction) toAction(politicianID string) model.Action {
	a := model.Action{
		ID:           strings.TrimSpace(r.ID),
		PoliticianID: politicianID,
		Description:  strings.TrimSpace(r.Description),
		Category:     model.ParseCategory(r.Category),
		VotePosition: model.ParseVotePosition(r.VotePosition),
		BillTitle:    strings.TrimSpace(r.BillTitle),
	}
	if a.ID == "" {
		a.ID = uuid.NewSHA1(actionNamespace, []byte(politicianID+"|"+a.Description+"|"+a.BillTitle)).String()
	}
	return a
}

// decodeFile reads JSON or YAML depending on the extension
func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	case ".json":
		err = json.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported file type %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// withStore loads the config, opens the store and closes it after fn
func withStore(fn func(ctx context.Context, st store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	return fn(context.Background(), st)
}
