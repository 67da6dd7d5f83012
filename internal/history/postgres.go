package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

// PostgresStore is the durable HistoryStore backing, enabled via DATABASE_URL.
// Append ordering relies on the serial primary key.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS turn_records (
			id          BIGSERIAL PRIMARY KEY,
			session_id  TEXT NOT NULL,
			transcript  TEXT,
			ai_response TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS turn_records_session_idx ON turn_records (session_id, id);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, sessionID string, rec ports.TurnRecord) ([]ports.TurnRecord, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO turn_records (session_id, transcript, ai_response, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, sessionID, rec.Transcript, rec.AiResponse, time.Now()).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}

	// Bound the snapshot at our own row so a concurrent turn committed in
	// between cannot trail it: the returned history always ends with the
	// record appended by this call.
	return s.selectHistory(ctx, `
		SELECT transcript, ai_response
		FROM turn_records
		WHERE session_id = $1 AND id <= $2
		ORDER BY id ASC
	`, sessionID, id)
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) ([]ports.TurnRecord, error) {
	return s.selectHistory(ctx, `
		SELECT transcript, ai_response
		FROM turn_records
		WHERE session_id = $1
		ORDER BY id ASC
	`, sessionID)
}

func (s *PostgresStore) selectHistory(ctx context.Context, query string, args ...any) ([]ports.TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	records := make([]ports.TurnRecord, 0)
	for rows.Next() {
		var rec ports.TurnRecord
		if err := rows.Scan(&rec.Transcript, &rec.AiResponse); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *PostgresStore) Clear(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM turn_records WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return false, fmt.Errorf("clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
