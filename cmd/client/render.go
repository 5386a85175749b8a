package main

import (
	"fmt"
	"strings"

	"github.com/colsen/skelarena/internal/game/protocol"
)

// renderLine turns one wire line into display text. Chat lines pass through;
// system messages become short human-readable notices. An emitter prefix
// keeps concurrent fights distinguishable.
func renderLine(line string) string {
	msg, ok := protocol.DecodeSystemMessage(line)
	if !ok {
		return line
	}

	switch msg.Type {
	case protocol.EventUsernamePrompt:
		return "Choose a username:"
	case protocol.EventUsernameInvalid:
		return "! " + msg.Args[0]
	case protocol.EventRegistered:
		return fmt.Sprintf("Registered as %s.", msg.Args[1])
	case protocol.EventJoinedRoom:
		return fmt.Sprintf("You are now in %s.", msg.Args[1])
	case protocol.EventClientJoined, protocol.EventClientLeft:
		// The room also broadcasts a chat line for these; stay quiet.
		return ""
	case protocol.EventValidationError:
		return "! " + msg.Args[0]
	case protocol.EventSetupCreature:
		return renderSetup(msg.Args)
	case protocol.EventCreatureStart:
		return tag(msg, "stirs and rises...")
	case protocol.EventCreatureState:
		return tag(msg, "is now "+msg.Args[0])
	case protocol.EventCreatureTookDamage:
		return tag(msg, "takes "+msg.Args[0]+" damage!")
	case protocol.EventCreatureHealth:
		return tag(msg, "has "+msg.Args[0]+" health left")
	case protocol.EventCreatureBlocked:
		return tag(msg, "blocks the blow!")
	case protocol.EventCreatureDeath:
		return tag(msg, "collapses into a pile of bones!")
	case protocol.EventCreatureInterrupted:
		return tag(msg, "staggers, attack interrupted")
	case protocol.EventAttackStarted:
		return tag(msg, "winds up an attack...")
	case protocol.EventAttackFinished:
		return tag(msg, "strikes!")
	case protocol.EventDefenseStarted:
		return tag(msg, "raises a guard")
	case protocol.EventDefenseStopped:
		return tag(msg, "lowers the guard")
	case protocol.EventAINewTarget:
		return tag(msg, "turns toward "+msg.Args[0])
	case protocol.EventPlayerNotify:
		return "! " + msg.Args[0]
	default:
		return line
	}
}

// renderSetup formats a ui_setup_creature snapshot:
// uid, name, alive, maxHealth, health, state, [targetName].
func renderSetup(args []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* %s [%s/%s] %s", args[1], args[4], args[3], args[5])
	if len(args) == 7 {
		fmt.Fprintf(&b, ", targeting %s", args[6])
	}
	return b.String()
}

func tag(msg protocol.SystemMessage, text string) string {
	return fmt.Sprintf("[%s] %s", msg.Emitter, text)
}
