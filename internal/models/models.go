package models

// InboundMessage is a single text message received from a chat
type InboundMessage struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// CommandKind identifies which handler a message is routed to
type CommandKind string

const (
	CommandGreeting CommandKind = "greeting"
	CommandHelp     CommandKind = "help"
	CommandSearch   CommandKind = "search"
	CommandSolve    CommandKind = "solve"
	CommandJoke     CommandKind = "joke"
	CommandChat     CommandKind = "chat"
	CommandUnknown  CommandKind = "unknown"
)

// Command is the classified intent of one inbound message.
// Payload holds the search query, the expression, the chat prompt,
// or the raw text of an unknown command. It is empty for the other kinds.
type Command struct {
	Kind    CommandKind `json:"kind"`
	Payload string      `json:"payload,omitempty"`
}

func (k CommandKind) String() string {
	return string(k)
}
