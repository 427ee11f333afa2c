package chat

import "strings"

// Command is a recognized control command
type Command int

const (
	// CommandNone means the line is a chat message
	CommandNone Command = iota
	CommandExit
	CommandClear
	CommandHelp
	CommandHistory
)

// Action tells the session loop what to do after a line was dispatched
type Action int

const (
	// ActionChat forwards the line to the model
	ActionChat Action = iota
	// ActionContinue returns to the prompt
	ActionContinue
	// ActionExit ends the session
	ActionExit
)

// ParseCommand classifies a raw input line. Matching ignores case and
// surrounding whitespace; anything unrecognized, typos included, is chat.
func ParseCommand(line string) Command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return CommandExit
	case "clear":
		return CommandClear
	case "help":
		return CommandHelp
	case "history":
		return CommandHistory
	default:
		return CommandNone
	}
}

// Dispatch performs the effect of a control command. Chat input is left
// untouched and reported as ActionChat.
func (s *Session) Dispatch(line string) Action {
	switch ParseCommand(line) {
	case CommandExit:
		s.console.Farewell()
		return ActionExit
	case CommandClear:
		s.transcript.Clear()
		s.console.Cleared()
		return ActionContinue
	case CommandHelp:
		s.console.Help()
		return ActionContinue
	case CommandHistory:
		s.console.History(s.transcript.Messages())
		return ActionContinue
	default:
		return ActionChat
	}
}
