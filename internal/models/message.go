package models

// MessageKind distinguishes private whispers from room-wide broadcasts.
type MessageKind int

const (
	Whisper MessageKind = iota
	Broadcast
)

// Message is one outbound chat line. Recipient is a player name for
// whispers and a game name for broadcasts. Delivery order matters and is
// preserved by everything that queues these.
type Message struct {
	Kind      MessageKind
	Recipient string
	Text      string
}

// WhisperTo builds a private message.
func WhisperTo(player, text string) Message {
	return Message{Kind: Whisper, Recipient: player, Text: text}
}

// BroadcastTo builds a room-wide message.
func BroadcastTo(game, text string) Message {
	return Message{Kind: Broadcast, Recipient: game, Text: text}
}
