package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

type sessionRow struct {
	bun.BaseModel `bun:"table:draft_sessions"`

	ID        string    `bun:"id,pk"`
	Payload   []byte    `bun:"payload,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunStore is the sqlite-backed alternative for single-node deployments that
// run without redis. Sessions have no TTL here; stale rows are cleaned up by
// PruneOlderThan.
type BunStore struct {
	DB *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{DB: db}
}

// Init creates the session table if it doesn't exist yet.
func (s *BunStore) Init(ctx context.Context) error {
	_, err := s.DB.NewCreateTable().
		Model((*sessionRow)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *BunStore) Get(ctx context.Context, id string) (*DraftSession, error) {
	var row sessionRow
	err := s.DB.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session DraftSession
	if err := json.Unmarshal(row.Payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *BunStore) Save(ctx context.Context, session *DraftSession) error {
	session.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	row := sessionRow{
		ID:        session.ID,
		Payload:   payload,
		UpdatedAt: session.UpdatedAt,
	}
	_, err = s.DB.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *BunStore) Delete(ctx context.Context, id string) error {
	_, err := s.DB.NewDelete().
		Model((*sessionRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// PruneOlderThan drops sessions not touched since the cutoff.
func (s *BunStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.DB.NewDelete().
		Model((*sessionRow)(nil)).
		Where("updated_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
