package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store"
)

// SavePolitician inserts or updates a politician. The credibility score is
// owned by the ledger once it has entries and is not overwritten.
func (s *Store) SavePolitician(ctx context.Context, p model.Politician) error {
	if p.ID == "" {
		return store.Invalid("save politician", errors.New("politician id is required"))
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO politicians (id, name, first_name, last_name, party, position, constituency, orientation, credibility_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			party = excluded.party,
			position = excluded.position,
			constituency = excluded.constituency,
			orientation = excluded.orientation,
			credibility_score = CASE
				WHEN EXISTS (SELECT 1 FROM ledger WHERE politician_id = excluded.id) THEN politicians.credibility_score
				ELSE excluded.credibility_score
			END
	`, p.ID, p.Name, p.FirstName, p.LastName, p.Party, p.Position, p.Constituency, string(p.Orientation), p.CredibilityScore)
	return classify("save politician", err)
}

// Politician returns one politician
func (s *Store) Politician(ctx context.Context, id string) (model.Politician, bool, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, name, first_name, last_name, party, position, constituency, orientation, credibility_score
		FROM politicians WHERE id = ?
	`, id)
	p, err := scanPolitician(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Politician{}, false, nil
	}
	if err != nil {
		return model.Politician{}, false, classify("get politician", err)
	}
	return p, true, nil
}

// Politicians returns every politician ordered by id
func (s *Store) Politicians(ctx context.Context) ([]model.Politician, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, name, first_name, last_name, party, position, constituency, orientation, credibility_score
		FROM politicians ORDER BY id
	`)
	if err != nil {
		return nil, classify("list politicians", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Politician
	for rows.Next() {
		p, err := scanPolitician(rows)
		if err != nil {
			return nil, classify("list politicians", err)
		}
		out = append(out, p)
	}
	return out, classify("list politicians", rows.Err())
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPolitician(row scanner) (model.Politician, error) {
	var p model.Politician
	var first, last, party, position, constituency, orientation sql.NullString
	err := row.Scan(&p.ID, &p.Name, &first, &last, &party, &position, &constituency, &orientation, &p.CredibilityScore)
	p.FirstName = first.String
	p.LastName = last.String
	p.Party = party.String
	p.Position = position.String
	p.Constituency = constituency.String
	p.Orientation = model.Orientation(orientation.String)
	return p, err
}
