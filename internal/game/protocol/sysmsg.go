// Package protocol defines the line-oriented wire protocol: plain chat lines
// and pipe-delimited system messages with a fixed event vocabulary.
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Wire-level framing constants.
const (
	// SysPrefix marks a system message line.
	SysPrefix = "sysmsg"
	// Delim separates system message fields. Usernames must not contain it.
	Delim = "|"
	// CommandMarker prefixes a command line in chat input.
	CommandMarker = "::"
)

// EventType tags a system message with its meaning. The vocabulary is fixed;
// unknown tags are a protocol error (logged and dropped, never fatal).
type EventType string

// Connection and room lifecycle events.
const (
	EventUsernamePrompt  EventType = "username_prompt"
	EventUsernameInvalid EventType = "username_invalid"
	EventRegistered      EventType = "registered"
	EventJoinedRoom      EventType = "joined_room"
	EventClientJoined    EventType = "client_joined_room"
	EventClientLeft      EventType = "client_left_room"
	EventValidationError EventType = "validation_error"
	EventSetupCreature   EventType = "ui_setup_creature"
)

// Creature events.
const (
	EventCreatureStart       EventType = "creature_start"
	EventCreatureState       EventType = "creature_changed_state"
	EventCreatureTookDamage  EventType = "creature_took_damage"
	EventCreatureHealth      EventType = "creature_health_report"
	EventCreatureBlocked     EventType = "creature_blocked_damage"
	EventCreatureDeath       EventType = "creature_death"
	EventCreatureInterrupted EventType = "creature_action_interrupted"
	EventAttackStarted       EventType = "creature_attack_started"
	EventAttackFinished      EventType = "creature_attack_finished"
	EventDefenseStarted      EventType = "creature_def"
	EventDefenseStopped      EventType = "creature_no_def"
	EventAINewTarget         EventType = "ai_new_target"
	EventPlayerNotify        EventType = "ply_notify"
)

// arity bounds the positional argument count for one event type.
type arity struct {
	min, max int
}

// vocabulary fixes the argument contract per event type.
var vocabulary = map[EventType]arity{
	EventUsernamePrompt:  {0, 0},
	EventUsernameInvalid: {1, 1},
	EventRegistered:      {2, 2}, // clientId, username
	EventJoinedRoom:      {3, 3}, // roomId, roomName, roomKind
	EventClientJoined:    {2, 2}, // clientId, username
	EventClientLeft:      {2, 2}, // clientId, username
	EventValidationError: {1, 1}, // human readable reason
	EventSetupCreature:   {6, 7}, // creatureId, name, alive, maxHealth, health, state, [targetName]

	EventCreatureStart:       {0, 0},
	EventCreatureState:       {1, 1}, // new state name
	EventCreatureTookDamage:  {1, 1}, // damage amount
	EventCreatureHealth:      {1, 1}, // remaining health
	EventCreatureBlocked:     {0, 0},
	EventCreatureDeath:       {0, 0},
	EventCreatureInterrupted: {0, 0},
	EventAttackStarted:       {0, 0},
	EventAttackFinished:      {0, 0},
	EventDefenseStarted:      {0, 0},
	EventDefenseStopped:      {0, 0},
	EventAINewTarget:         {1, 1}, // target creatureId
	EventPlayerNotify:        {1, 1}, // human readable reason
}

// Known reports whether t is part of the fixed event vocabulary.
func Known(t EventType) bool {
	_, ok := vocabulary[t]
	return ok
}

// ValidateArgs checks the positional argument count against the vocabulary.
//
// Postcondition: Returns nil iff t is known and n is within its arity bounds.
func ValidateArgs(t EventType, n int) error {
	a, ok := vocabulary[t]
	if !ok {
		return fmt.Errorf("unknown system message type %q", t)
	}
	if n < a.min || n > a.max {
		return fmt.Errorf("system message %q: got %d args, want %d-%d", t, n, a.min, a.max)
	}
	return nil
}

// EventTypes returns all known event types in no particular order.
func EventTypes() []EventType {
	out := make([]EventType, 0, len(vocabulary))
	for t := range vocabulary {
		out = append(out, t)
	}
	return out
}

// SystemMessage is a structured, non-chat protocol event. Emitter is the uid
// of the client, room, or creature that produced it.
type SystemMessage struct {
	Emitter string
	Type    EventType
	Args    []string
}

// NewSystemMessage builds a SystemMessage, stringifying args positionally.
//
// Precondition: emitter must be non-empty; typ should be a known event type.
func NewSystemMessage(emitter string, typ EventType, args ...any) SystemMessage {
	return SystemMessage{
		Emitter: emitter,
		Type:    typ,
		Args:    Stringify(args...),
	}
}

// Validate checks the message against the fixed vocabulary.
func (m SystemMessage) Validate() error {
	return ValidateArgs(m.Type, len(m.Args))
}

// Encode renders the message as a wire line:
// sysmsg|<emitterId>|<msgType>|<arg1>|<arg2>|...
//
// Postcondition: Returns a single line without a trailing newline.
func (m SystemMessage) Encode() string {
	parts := make([]string, 0, 3+len(m.Args))
	parts = append(parts, SysPrefix, m.Emitter, string(m.Type))
	parts = append(parts, m.Args...)
	return strings.Join(parts, Delim)
}

// DecodeSystemMessage parses a wire line into a SystemMessage.
//
// Postcondition: Returns (msg, true) for a well-formed sysmsg line with a
// known type and valid arity; (zero, false) for chat lines or malformed input.
func DecodeSystemMessage(line string) (SystemMessage, bool) {
	if !strings.HasPrefix(line, SysPrefix+Delim) {
		return SystemMessage{}, false
	}
	fields := strings.Split(line, Delim)
	if len(fields) < 3 {
		return SystemMessage{}, false
	}
	msg := SystemMessage{
		Emitter: fields[1],
		Type:    EventType(fields[2]),
		Args:    fields[3:],
	}
	if err := msg.Validate(); err != nil {
		return SystemMessage{}, false
	}
	return msg, true
}

// Stringify converts positional arguments to their wire representation.
func Stringify(args ...any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			out[i] = v
		case bool:
			out[i] = strconv.FormatBool(v)
		case int:
			out[i] = strconv.Itoa(v)
		case fmt.Stringer:
			out[i] = v.String()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
