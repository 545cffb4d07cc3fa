// Package audit moves resolved outcomes out of the rooms and into the
// outcomes table.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"duo-casino/internal/room"
	"duo-casino/internal/store"
)

// Writer persists audit rows. *store.Store satisfies it.
type Writer interface {
	InsertOutcome(ctx context.Context, rec store.OutcomeRecord) error
}

const insertTimeout = 3 * time.Second

// Recorder is a room.OutcomeSink backed by a bounded queue. Record never
// blocks; when the queue is full the outcome is dropped.
type Recorder struct {
	w     Writer
	queue chan room.Outcome
	done  chan struct{}
}

func NewRecorder(w Writer, size int) *Recorder {
	if size <= 0 {
		size = 1024
	}
	return &Recorder{
		w:     w,
		queue: make(chan room.Outcome, size),
		done:  make(chan struct{}),
	}
}

func (r *Recorder) Record(o room.Outcome) {
	select {
	case r.queue <- o:
		metricAuditQueueLen.Set(int64(len(r.queue)))
	default:
		metricAuditDroppedTotal.Add(1)
	}
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (r *Recorder) Run(ctx context.Context) error {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return nil
		case o := <-r.queue:
			metricAuditQueueLen.Set(int64(len(r.queue)))
			r.write(ctx, o)
		}
	}
}

// Done is closed once Run has returned.
func (r *Recorder) Done() <-chan struct{} {
	return r.done
}

func (r *Recorder) flush() {
	for {
		select {
		case o := <-r.queue:
			r.write(context.Background(), o)
		default:
			return
		}
	}
}

func (r *Recorder) write(ctx context.Context, o room.Outcome) {
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()
	rec, err := ToRecord(o)
	if err != nil {
		metricAuditFailedTotal.Add(1)
		log.Error().Err(err).Str("room", o.Room).Msg("audit_encode_failed")
		return
	}
	if err := r.w.InsertOutcome(ctx, rec); err != nil {
		metricAuditFailedTotal.Add(1)
		log.Error().Err(err).Str("room", o.Room).Str("game", o.Game).Msg("audit_insert_failed")
		return
	}
	metricAuditWrittenTotal.Add(1)
}

func ToRecord(o room.Outcome) (store.OutcomeRecord, error) {
	detail := json.RawMessage(`{}`)
	if len(o.Detail) > 0 {
		b, err := json.Marshal(o.Detail)
		if err != nil {
			return store.OutcomeRecord{}, err
		}
		detail = b
	}
	return store.OutcomeRecord{
		ID:          store.NewOutcomeID(o.At),
		RoomID:      o.Room,
		Seat:        o.Seat,
		Game:        o.Game,
		Mode:        string(o.Mode),
		Bet:         o.Bet,
		PayoutTotal: o.PayoutTotal,
		Profit:      o.Profit,
		Result:      o.Result,
		Reward:      o.Reward,
		Detail:      detail,
		CreatedAt:   o.At,
	}, nil
}
