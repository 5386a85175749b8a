package protocol

import "strings"

// FormatChat renders a chat broadcast line. An empty author produces a bare
// text line (history replay and raw-text sends use this form).
//
// Postcondition: Returns "<author>: <text>" or "<text>".
func FormatChat(author, text string) string {
	if author == "" {
		return text
	}
	return author + ": " + text
}

// IsCommand reports whether a chat input line is a command invocation.
func IsCommand(text string) bool {
	return strings.HasPrefix(text, CommandMarker)
}

// ParseCommand splits a command line into its verb and argument list.
// The marker is stripped and the remainder split on whitespace.
//
// Precondition: IsCommand(text) must be true.
// Postcondition: verb may be empty when the marker stands alone.
func ParseCommand(text string) (verb string, args []string) {
	rest := strings.TrimPrefix(text, CommandMarker)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
