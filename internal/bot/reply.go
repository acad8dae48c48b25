package bot

// Button is one inline button: a label and the callback token it sends back.
type Button struct {
	Label string
	Data  string
}

// Reply is one outgoing message. Keyboard rows are optional.
type Reply struct {
	ChatID   int64
	Text     string
	Keyboard [][]Button
}

func textReply(chatID int64, text string) Reply {
	return Reply{ChatID: chatID, Text: text}
}
