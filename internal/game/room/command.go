package room

import "fmt"

// HandlerFunc executes one room command on behalf of a member.
type HandlerFunc func(r *Room, c *Client, args []string)

// Command is one verb in a room's vocabulary with its argument bounds.
type Command struct {
	Name    string
	MinArgs int
	MaxArgs int
	Help    string
	Run     HandlerFunc
}

// CommandSet is a room kind's fixed command vocabulary. Built once at
// construction; never mutated afterwards.
type CommandSet struct {
	commands map[string]Command
}

// NewCommandSet builds a vocabulary from the given commands.
//
// Precondition: command names must be unique and non-empty.
func NewCommandSet(commands ...Command) *CommandSet {
	set := &CommandSet{commands: make(map[string]Command, len(commands))}
	for _, cmd := range commands {
		set.commands[cmd.Name] = cmd
	}
	return set
}

// Names returns the verbs in the vocabulary.
func (s *CommandSet) Names() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	return names
}

// Dispatch resolves a verb and runs it. An unknown verb or an argument-count
// violation produces a targeted validation_error for the issuing client and
// is never surfaced to other members.
func (s *CommandSet) Dispatch(r *Room, c *Client, verb string, args []string) {
	cmd, ok := s.commands[verb]
	if !ok {
		r.ValidationError(c, fmt.Sprintf("Unrecognized command %s", verb))
		return
	}
	if len(args) < cmd.MinArgs {
		r.ValidationError(c, fmt.Sprintf("Too few arguments for %s, expected at least %d", verb, cmd.MinArgs))
		return
	}
	if len(args) > cmd.MaxArgs {
		r.ValidationError(c, fmt.Sprintf("Too many arguments for %s, expected at most %d", verb, cmd.MaxArgs))
		return
	}
	cmd.Run(r, c, args)
}
