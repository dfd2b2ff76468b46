// Copyright 2024-2026 Aiku AI

package channelbot

// Identity carries the id fields an update may expose for its sender.
type Identity struct {
	SenderID int64
	ChatID   int64
	ID       int64
}

// Resolve returns the first non-zero of the sender id, the containing chat
// id and the generic id.
func (i Identity) Resolve() int64 {
	switch {
	case i.SenderID != 0:
		return i.SenderID
	case i.ChatID != 0:
		return i.ChatID
	default:
		return i.ID
	}
}

// Guard admits only the configured operator.
type Guard struct {
	OperatorID int64
}

// Allowed reports whether identity resolves to the operator.
func (g Guard) Allowed(identity Identity) bool {
	return g.OperatorID != 0 && identity.Resolve() == g.OperatorID
}

// Check is Allowed as an error.
func (g Guard) Check(identity Identity) error {
	if !g.Allowed(identity) {
		return ErrUnauthorized
	}
	return nil
}
