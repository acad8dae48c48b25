package bot

import "sync"

// Sessions tracks which chats have been asked to send a series name. The
// flag lives only between the "add" button press and the next message from
// that chat.
type Sessions struct {
	awaitingName sync.Map // chat id -> struct{}
}

// NewSessions creates an empty session store
func NewSessions() *Sessions {
	return &Sessions{}
}

// AwaitName marks the chat as waiting for a series name
func (s *Sessions) AwaitName(chatID int64) {
	s.awaitingName.Store(chatID, struct{}{})
}

// TakeAwaitingName reports whether the chat was waiting for a series name
// and clears the flag in the same atomic step, so two concurrent messages
// from one chat cannot both be taken as the name.
func (s *Sessions) TakeAwaitingName(chatID int64) bool {
	_, ok := s.awaitingName.LoadAndDelete(chatID)
	return ok
}
