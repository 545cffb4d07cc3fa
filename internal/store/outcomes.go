package store

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
)

// OutcomeRecord is one row of the outcomes audit table.
type OutcomeRecord struct {
	ID          string          `json:"id"`
	RoomID      string          `json:"room_id"`
	Seat        int             `json:"seat"`
	Game        string          `json:"game"`
	Mode        string          `json:"mode"`
	Bet         int64           `json:"bet"`
	PayoutTotal int64           `json:"payout_total"`
	Profit      int64           `json:"profit"`
	Result      string          `json:"result"`
	Reward      string          `json:"reward,omitempty"`
	Detail      json.RawMessage `json:"detail"`
	CreatedAt   time.Time       `json:"created_at"`
}

var (
	outcomeEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	outcomeEntropyMu sync.Mutex
)

// NewOutcomeID returns a ULID stamped with the outcome time, so ids sort
// in resolution order. A zero time stamps the current time.
func NewOutcomeID(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	outcomeEntropyMu.Lock()
	defer outcomeEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), outcomeEntropy).String()
}

// InsertOutcome stores rec. A zero CreatedAt is set to now.
func (s *Store) InsertOutcome(ctx context.Context, rec OutcomeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.ID == "" {
		rec.ID = NewOutcomeID(rec.CreatedAt)
	}
	if len(rec.Detail) == 0 {
		rec.Detail = json.RawMessage(`{}`)
	}
	_, err := s.Pool.Exec(ctx, `
INSERT INTO outcomes (id, room_id, seat, game, mode, bet, payout_total, profit, result, reward, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.RoomID, rec.Seat, rec.Game, rec.Mode, rec.Bet, rec.PayoutTotal, rec.Profit,
		rec.Result, rec.Reward, []byte(rec.Detail), rec.CreatedAt)
	return err
}

// ListOutcomes returns the newest outcomes of a room first.
func (s *Store) ListOutcomes(ctx context.Context, roomID string, limit, offset int) ([]OutcomeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.Pool.Query(ctx, `
SELECT id, room_id, seat, game, mode, bet, payout_total, profit, result, reward, detail, created_at
FROM outcomes
WHERE room_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutcomeRecord, error) {
		var rec OutcomeRecord
		var detail []byte
		err := row.Scan(&rec.ID, &rec.RoomID, &rec.Seat, &rec.Game, &rec.Mode, &rec.Bet,
			&rec.PayoutTotal, &rec.Profit, &rec.Result, &rec.Reward, &detail, &rec.CreatedAt)
		rec.Detail = json.RawMessage(detail)
		return rec, err
	})
}

func (s *Store) GetOutcome(ctx context.Context, id string) (*OutcomeRecord, error) {
	var rec OutcomeRecord
	var detail []byte
	err := s.Pool.QueryRow(ctx, `
SELECT id, room_id, seat, game, mode, bet, payout_total, profit, result, reward, detail, created_at
FROM outcomes WHERE id = $1`, id).Scan(&rec.ID, &rec.RoomID, &rec.Seat, &rec.Game, &rec.Mode, &rec.Bet,
		&rec.PayoutTotal, &rec.Profit, &rec.Result, &rec.Reward, &detail, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Detail = json.RawMessage(detail)
	return &rec, nil
}
