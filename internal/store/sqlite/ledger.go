package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store"
)

// InsertVerification stores a record once per promise and action pair and
// marks the promise verified. A duplicate pair is a no-op.
func (s *Store) InsertVerification(ctx context.Context, rec model.VerificationRecord) (bool, error) {
	if err := store.ValidateVerification(rec); err != nil {
		return false, err
	}

	var verifiedAt sql.NullString
	if rec.VerifiedAt != nil {
		verifiedAt = sql.NullString{String: rec.VerifiedAt.UTC().Format(timeLayout), Valid: true}
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, classify("insert verification", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO verifications (id, pair_key, promise_id, action_id, match_type, match_confidence, method, verified_at, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pair_key) DO NOTHING
	`, rec.ID, store.VerificationKey(rec), rec.PromiseID, rec.ActionID, string(rec.MatchType), rec.MatchConfidence,
		string(rec.Method), verifiedAt, rec.Explanation)
	if err != nil {
		return false, classify("insert verification", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("insert verification", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `UPDATE promises SET status = ? WHERE id = ?`, string(model.PromiseVerified), rec.PromiseID); err != nil {
		return false, classify("insert verification", err)
	}
	if err := tx.Commit(); err != nil {
		return false, classify("insert verification", err)
	}
	return true, nil
}

// Verifications returns the records of a politician's promises
func (s *Store) Verifications(ctx context.Context, politicianID string) ([]model.VerificationRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT v.id, v.promise_id, v.action_id, v.match_type, v.match_confidence, v.method, v.verified_at, v.explanation
		FROM verifications v JOIN promises p ON p.id = v.promise_id
		WHERE p.politician_id = ?
		ORDER BY v.seq
	`, politicianID)
	if err != nil {
		return nil, classify("list verifications", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.VerificationRecord
	for rows.Next() {
		var rec model.VerificationRecord
		var verifiedAt, explanation sql.NullString
		if err := rows.Scan(&rec.ID, &rec.PromiseID, &rec.ActionID, &rec.MatchType, &rec.MatchConfidence,
			&rec.Method, &verifiedAt, &explanation); err != nil {
			return nil, classify("list verifications", err)
		}
		if verifiedAt.Valid {
			t, err := time.Parse(timeLayout, verifiedAt.String)
			if err != nil {
				return nil, store.Invalid("list verifications", err)
			}
			rec.VerifiedAt = &t
		}
		rec.Explanation = explanation.String
		out = append(out, rec)
	}
	return out, classify("list verifications", rows.Err())
}

// CurrentScore returns the newest ledger score; false when there is none
func (s *Store) CurrentScore(ctx context.Context, politicianID string) (float64, bool, error) {
	var score float64
	err := s.conn.QueryRowContext(ctx, `
		SELECT new_score FROM ledger WHERE politician_id = ? ORDER BY seq DESC LIMIT 1
	`, politicianID).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify("current score", err)
	}
	return score, true, nil
}

const ledgerColumns = `id, politician_id, promise_id, previous_score, score_delta, new_score,
	change_reason, description, sources, confidence, timestamp, data`

// LedgerEntry returns one entry by event id
func (s *Store) LedgerEntry(ctx context.Context, id string) (model.LedgerEntry, bool, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+ledgerColumns+` FROM ledger WHERE id = ?`, id)
	e, err := scanLedger(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LedgerEntry{}, false, nil
	}
	if err != nil {
		return model.LedgerEntry{}, false, classify("get ledger entry", err)
	}
	return e, true, nil
}

// AppendLedger appends an entry unless its event id exists, and mirrors
// the new score onto the politician row
func (s *Store) AppendLedger(ctx context.Context, e model.LedgerEntry) (bool, error) {
	if err := store.ValidateLedgerEntry(e); err != nil {
		return false, err
	}
	sources, err := json.Marshal(e.Sources)
	if err != nil {
		return false, store.Invalid("append ledger", err)
	}
	data, err := json.Marshal(e.Data)
	if err != nil {
		return false, store.Invalid("append ledger", err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, classify("append ledger", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO ledger (`+ledgerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, e.ID, e.PoliticianID, e.PromiseID, e.PreviousScore, e.ScoreDelta, e.NewScore,
		string(e.ChangeReason), e.Description, string(sources), e.Confidence, e.Timestamp.UTC().Format(timeLayout), string(data))
	if err != nil {
		return false, classify("append ledger", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("append ledger", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `UPDATE politicians SET credibility_score = ? WHERE id = ?`, e.NewScore, e.PoliticianID); err != nil {
		return false, classify("append ledger", err)
	}
	if err := tx.Commit(); err != nil {
		return false, classify("append ledger", err)
	}
	return true, nil
}

// LedgerEntries returns a politician's entries in append order
func (s *Store) LedgerEntries(ctx context.Context, politicianID string) ([]model.LedgerEntry, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+ledgerColumns+` FROM ledger WHERE politician_id = ? ORDER BY seq`, politicianID)
	if err != nil {
		return nil, classify("list ledger", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.LedgerEntry
	for rows.Next() {
		e, err := scanLedger(rows)
		if err != nil {
			return nil, classify("list ledger", err)
		}
		out = append(out, e)
	}
	return out, classify("list ledger", rows.Err())
}

func scanLedger(row scanner) (model.LedgerEntry, error) {
	var e model.LedgerEntry
	var promiseID, sources, data sql.NullString
	var timestamp string
	if err := row.Scan(&e.ID, &e.PoliticianID, &promiseID, &e.PreviousScore, &e.ScoreDelta, &e.NewScore,
		&e.ChangeReason, &e.Description, &sources, &e.Confidence, &timestamp, &data); err != nil {
		return e, err
	}
	e.PromiseID = promiseID.String
	t, err := time.Parse(timeLayout, timestamp)
	if err != nil {
		return e, store.Invalid("scan ledger", err)
	}
	e.Timestamp = t
	if sources.Valid && sources.String != "" && sources.String != "null" {
		if err := json.Unmarshal([]byte(sources.String), &e.Sources); err != nil {
			return e, store.Invalid("scan ledger", err)
		}
	}
	if data.Valid && data.String != "" && data.String != "null" {
		if err := json.Unmarshal([]byte(data.String), &e.Data); err != nil {
			return e, store.Invalid("scan ledger", err)
		}
	}
	return e, nil
}

// LoadQuota returns the persisted embedding quota counter
func (s *Store) LoadQuota(ctx context.Context) (string, int, error) {
	var month string
	var used int
	err := s.conn.QueryRowContext(ctx, `SELECT month, used FROM embedding_quota WHERE id = 1`).Scan(&month, &used)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, classify("load quota", err)
	}
	return month, used, nil
}

// SaveQuota persists the embedding quota counter. Within one month the
// stored count never decreases; a snapshot of an earlier month is ignored.
func (s *Store) SaveQuota(ctx context.Context, month string, used int) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO embedding_quota (id, month, used) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			used = CASE WHEN excluded.month = embedding_quota.month
				THEN MAX(embedding_quota.used, excluded.used)
				ELSE excluded.used END,
			month = excluded.month
		WHERE excluded.month >= embedding_quota.month
	`, month, used)
	return classify("save quota", err)
}
