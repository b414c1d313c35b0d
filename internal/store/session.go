package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// sessionRepo implements SessionRepo over the session_snapshots table.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, subject string, data json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_snapshots (subject, timestamp, data) VALUES (?, ?, ?)`,
		subject, time.Now().UTC().Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

func (r *sessionRepo) Latest(ctx context.Context, subject string) (*SessionSnapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, subject, timestamp, data FROM session_snapshots
		 WHERE subject = ? ORDER BY id DESC LIMIT 1`, subject)

	var snap SessionSnapshot
	var ts, data string
	if err := row.Scan(&snap.ID, &snap.Subject, &ts, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		snap.Timestamp = t
	}
	snap.Data = json.RawMessage(data)
	return &snap, nil
}

func (r *sessionRepo) Prune(ctx context.Context, subject string, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_snapshots
		 WHERE subject = ? AND id NOT IN (
			SELECT id FROM session_snapshots WHERE subject = ?
			ORDER BY id DESC LIMIT ?
		 )`, subject, subject, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
