// Package protocol defines the JSON frames exchanged with room clients.
package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Inbound commands.
const (
	EventWheelSpin = "wheel:spin"
	EventTxRoll    = "tx:roll"
	EventRlSpin    = "rl:spin"
	EventBjNew     = "bj:new"
	EventBjDeal    = "bj:deal"
	EventBjHit     = "bj:hit"
	EventBjStand   = "bj:stand"
	EventStateSet  = "state:set"
	EventLockSet   = "lock:set"
	EventUITab     = "ui:tab"
	EventPlayerSet = "player:set"
	EventRoomReset = "room:reset"
)

// Outbound events. state:set, player:set and ui:tab are relayed under
// their inbound names.
const (
	EventInit        = "init"
	EventPresence    = "presence"
	EventLockState   = "lock:state"
	EventStateFull   = "state:full"
	EventWheelResult = "wheel:spinResult"
	EventTxResult    = "tx:result"
	EventRlResult    = "rl:result"
	EventBjState     = "bj:state"
	EventError       = "error:msg"
	EventRoomClosed  = "room:closed"
)

var ErrInvalidPayload = errors.New("invalid_payload")

// Envelope is the frame shape in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func Encode(typ string, data any) ([]byte, error) {
	env := struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: typ, Data: data}
	return json.Marshal(env)
}

func DecodeEnvelope(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", ErrInvalidPayload)
	}
	return env, nil
}

// HasData reports whether the envelope carried a non-null payload.
func (e Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

//go:embed schema/*.json
var schemaFS embed.FS

var schemaFiles = map[string]string{
	EventWheelSpin: "wheel_spin.json",
	EventTxRoll:    "tx_roll.json",
	EventRlSpin:    "rl_spin.json",
	EventBjNew:     "bj_action.json",
	EventBjDeal:    "bj_action.json",
	EventBjHit:     "bj_action.json",
	EventBjStand:   "bj_action.json",
	EventStateSet:  "state_set.json",
	EventLockSet:   "lock_set.json",
	EventUITab:     "ui_tab.json",
	EventPlayerSet: "player_set.json",
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func loadSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiled := make(map[string]*jsonschema.Schema, len(schemaFiles))
		byFile := map[string]*jsonschema.Schema{}
		for event, file := range schemaFiles {
			if s, ok := byFile[file]; ok {
				compiled[event] = s
				continue
			}
			data, err := schemaFS.ReadFile("schema/" + file)
			if err != nil {
				schemasErr = fmt.Errorf("read schema %s: %w", file, err)
				return
			}
			if err := compiler.AddResource(file, bytes.NewReader(data)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", file, err)
				return
			}
			s, err := compiler.Compile(file)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", file, err)
				return
			}
			byFile[file] = s
			compiled[event] = s
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

// Decode validates the envelope payload against the schema declared for
// its type and unmarshals it into dst. Events without a schema decode
// without validation.
func Decode(env Envelope, dst any) error {
	if !env.HasData() {
		return fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	all, err := loadSchemas()
	if err != nil {
		return err
	}
	if s, ok := all[env.Type]; ok {
		var doc any
		if err := json.Unmarshal(env.Data, &doc); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if err := s.Validate(doc); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
