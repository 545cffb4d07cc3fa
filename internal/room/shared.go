package room

import (
	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
)

// write applies a field change for writer, honouring locks.
func (r *Room) write(writer string, field string, raw any) (any, error) {
	if !r.state.Declared(field) {
		return nil, ErrUnknownField
	}
	if !r.locks.CanWrite(field, writer) {
		return nil, ErrRejected
	}
	return r.state.Set(field, raw)
}

func (r *Room) handleStateSet(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.StateSet
	if err := protocol.Decode(env, &p); err != nil {
		return err
	}
	v, err := r.write(sess.ConnID, p.Field, p.Value)
	if err != nil {
		return err
	}
	r.broadcast(protocol.EventStateSet, stateSetPayload{Field: p.Field, Value: v, By: int(sess.Seat)}, sess.ConnID)
	return nil
}

func (r *Room) handleLockSet(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.LockSet
	if err := protocol.Decode(env, &p); err != nil {
		return err
	}
	if !r.state.Declared(p.Field) {
		return ErrUnknownField
	}
	if p.Locked {
		if owner, held := r.locks.Owner(p.Field); held && owner == sess.ConnID {
			return nil
		}
		if !r.locks.Acquire(p.Field, sess.ConnID) {
			return ErrRejected
		}
	} else if !r.locks.Release(p.Field, sess.ConnID) {
		return ErrRejected
	}
	r.broadcastLocks()
	return nil
}

func (r *Room) handleUITab(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.UITab
	if err := protocol.Decode(env, &p); err != nil {
		return err
	}
	v, err := r.write(sess.ConnID, fieldUITab, p.Tab)
	if err != nil {
		return err
	}
	tab, _ := v.(string)
	r.broadcast(protocol.EventUITab, uiTabPayload{Tab: tab, By: int(sess.Seat)}, sess.ConnID)
	return nil
}

// handlePlayerSet writes one key of the sender's own seat state and echoes
// the stored value to the whole room.
func (r *Room) handlePlayerSet(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.PlayerSet
	if err := protocol.Decode(env, &p); err != nil {
		return err
	}
	v, err := r.write(sess.ConnID, seatField(sess.Seat, p.Key), p.Value)
	if err != nil {
		return err
	}
	r.broadcast(protocol.EventPlayerSet, playerSetPayload{By: int(sess.Seat), Key: p.Key, Value: v}, "")
	return nil
}

// handleRoomReset restores balances, seat state and the blackjack table.
// Locks and seats are kept.
func (r *Room) handleRoomReset(sess *Session) error {
	if sess.Seat != Seat1 || r.settle.Mode() != ledger.ModeLedger {
		return ErrRejected
	}
	r.settle.Reset()
	r.state.Reset()
	r.bj = game.NewRound()
	r.broadcast(protocol.EventRoomReset, r.snapshotLocked(), "")
	r.log.Info().Msg("room_reset")
	return nil
}
