package room

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrRejected     = errors.New("rejected")
	ErrUnknownField = errors.New("unknown_field")
)

// StateStore holds the shared configuration of one room, addressed by
// declared field path.
type StateStore struct {
	fields map[string]Field
	order  []string
	values map[string]any
}

func NewStateStore(fields []Field) *StateStore {
	s := &StateStore{
		fields: make(map[string]Field, len(fields)),
		values: make(map[string]any, len(fields)),
	}
	for _, f := range fields {
		s.fields[f.Name] = f
		s.order = append(s.order, f.Name)
	}
	s.Reset()
	return s
}

func (s *StateStore) Declared(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Set coerces raw through the field's validator, stores it and returns
// the stored value.
func (s *StateStore) Set(name string, raw any) (any, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, ErrUnknownField
	}
	v := f.Coerce(s.values[name], raw)
	s.values[name] = v
	return v, nil
}

func (s *StateStore) Int(name string) int64 {
	v, _ := s.values[name].(int64)
	return v
}

func (s *StateStore) String(name string) string {
	v, _ := s.values[name].(string)
	return v
}

// Reset restores every field to its default.
func (s *StateStore) Reset() {
	for name, f := range s.fields {
		s.values[name] = f.Default
	}
}

// Shared returns the room-level fields, excluding per-seat state.
func (s *StateStore) Shared() map[string]any {
	out := make(map[string]any)
	for _, name := range s.order {
		if _, _, ok := splitSeatField(name); ok {
			continue
		}
		out[name] = s.values[name]
	}
	return out
}

// Players returns per-seat state keyed by seat number then key.
func (s *StateStore) Players() map[string]map[string]any {
	out := map[string]map[string]any{"1": {}, "2": {}}
	for _, name := range s.order {
		seat, key, ok := splitSeatField(name)
		if !ok {
			continue
		}
		out[strconv.Itoa(int(seat))][key] = s.values[name]
	}
	return out
}

func splitSeatField(name string) (Seat, string, bool) {
	prefix, key, ok := strings.Cut(name, ".")
	if !ok || len(prefix) != 2 || prefix[0] != 'p' {
		return Spectator, "", false
	}
	switch prefix[1] {
	case '1':
		return Seat1, key, true
	case '2':
		return Seat2, key, true
	}
	return Spectator, "", false
}
