package entities

import "time"

// User is keyed by a lower-cased EVM address and created lazily on first
// interaction.
type User struct {
	UserID    string
	Address   string
	CreatedAt time.Time
}
