package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store"
)

// SavePromise inserts a promise unless its id exists
func (s *Store) SavePromise(ctx context.Context, p model.PromiseCandidate) (bool, error) {
	if err := store.ValidatePromise(p); err != nil {
		return false, err
	}
	keywords, err := json.Marshal(p.Keywords)
	if err != nil {
		return false, store.Invalid("save promise", err)
	}
	status := p.Status
	if status == "" {
		status = model.PromisePending
	}
	importance := p.Importance
	if importance == "" {
		importance = model.ImportanceMedium
	}

	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO promises (id, politician_id, text, confidence, category, is_actionable, keywords,
			source_url, effective_url, usable, authority, sentence, status, importance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, p.ID, p.PoliticianID, p.Text, model.Clamp01(p.Confidence), string(p.Category), boolInt(p.IsActionable), string(keywords),
		p.Source.URL, p.Source.EffectiveURL, boolInt(p.Source.Usable), int(p.Source.Authority), p.Source.Sentence,
		string(status), string(importance))
	if err != nil {
		return false, classify("save promise", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("save promise", err)
	}
	return n > 0, nil
}

// Promises returns a politician's promises in insertion order
func (s *Store) Promises(ctx context.Context, politicianID string) ([]model.PromiseCandidate, error) {
	return s.queryPromises(ctx, "list promises", `WHERE politician_id = ?`, politicianID)
}

// PendingPromises returns promises with no verification record yet
func (s *Store) PendingPromises(ctx context.Context, politicianID string) ([]model.PromiseCandidate, error) {
	return s.queryPromises(ctx, "pending promises", `WHERE politician_id = ? AND status = 'pending'`, politicianID)
}

func (s *Store) queryPromises(ctx context.Context, op, where string, args ...interface{}) ([]model.PromiseCandidate, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, politician_id, text, confidence, category, is_actionable, keywords,
			source_url, effective_url, usable, authority, sentence, status, importance
		FROM promises `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.PromiseCandidate
	for rows.Next() {
		var p model.PromiseCandidate
		var keywords, url, effective sql.NullString
		var actionable, usable, authority int
		if err := rows.Scan(&p.ID, &p.PoliticianID, &p.Text, &p.Confidence, &p.Category, &actionable, &keywords,
			&url, &effective, &usable, &authority, &p.Source.Sentence, &p.Status, &p.Importance); err != nil {
			return nil, classify(op, err)
		}
		if keywords.Valid && keywords.String != "" {
			if err := json.Unmarshal([]byte(keywords.String), &p.Keywords); err != nil {
				return nil, store.Invalid(op, err)
			}
		}
		p.IsActionable = actionable == 1
		p.Source.URL = url.String
		p.Source.EffectiveURL = effective.String
		p.Source.Usable = usable == 1
		p.Source.Authority = model.AuthorityTier(authority)
		out = append(out, p)
	}
	return out, classify(op, rows.Err())
}

// SaveActions inserts or replaces actions in one transaction
func (s *Store) SaveActions(ctx context.Context, actions []model.Action) error {
	for _, a := range actions {
		if err := store.ValidateAction(a); err != nil {
			return err
		}
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return classify("save actions", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range actions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO actions (id, politician_id, description, category, vote_position, bill_title)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				politician_id = excluded.politician_id,
				description = excluded.description,
				category = excluded.category,
				vote_position = excluded.vote_position,
				bill_title = excluded.bill_title
		`, a.ID, a.PoliticianID, a.Description, string(a.Category), string(a.VotePosition), a.BillTitle)
		if err != nil {
			return classify("save actions", err)
		}
	}
	return classify("save actions", tx.Commit())
}

// ActionsFor returns a politician's actions in insertion order
func (s *Store) ActionsFor(ctx context.Context, politicianID string) ([]model.Action, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, politician_id, description, category, vote_position, bill_title
		FROM actions WHERE politician_id = ? ORDER BY seq
	`, politicianID)
	if err != nil {
		return nil, classify("list actions", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Action
	for rows.Next() {
		var a model.Action
		var vote, bill sql.NullString
		if err := rows.Scan(&a.ID, &a.PoliticianID, &a.Description, &a.Category, &vote, &bill); err != nil {
			return nil, classify("list actions", err)
		}
		a.VotePosition = model.VotePosition(vote.String)
		a.BillTitle = bill.String
		out = append(out, a)
	}
	return out, classify("list actions", rows.Err())
}
