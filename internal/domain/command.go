package domain

// CommandType classifies what the user wants to do.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandUpload              // select a photo and analyze it right away
	CommandSelect              // select a photo, show the preview
	CommandAnalyze             // analyze the current selection
	CommandClear               // drop the current selection
	CommandSet                 // set one recipe constraint
	CommandGenerate            // submit the recipe form
	CommandDismiss             // dismiss the error banner
	CommandStatus
	CommandHealth
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandUpload:
		return "upload"
	case CommandSelect:
		return "select"
	case CommandAnalyze:
		return "analyze"
	case CommandClear:
		return "clear"
	case CommandSet:
		return "set"
	case CommandGenerate:
		return "generate"
	case CommandDismiss:
		return "dismiss"
	case CommandStatus:
		return "status"
	case CommandHealth:
		return "health"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command represents a parsed user action.
type Command struct {
	Type    CommandType
	Key     string // constraint name for CommandSet
	Payload string // path, value, or inline key=value pairs
}
