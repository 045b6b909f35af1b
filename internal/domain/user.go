package domain

import "time"

// User aggregates the canonical user node data.
type User struct {
	ID          string
	Name        string
	Bio         string
	Affiliation string
	Nationality string
	Gender      string
	CreatedAt   time.Time
	Active      bool
}

// UserSummary represents lightweight user information embedded in other
// payloads (story authors, share events, list endpoints).
type UserSummary struct {
	ID   string
	Name string
}

// ConnectionKind enumerates the user-to-user edge types the repository may
// create directly. AUTHORED and SHARED edges are created by their own
// operations and are not valid connection kinds.
type ConnectionKind string

const (
	ConnectionKnows      ConnectionKind = "KNOWS"
	ConnectionSharedWith ConnectionKind = "SHARED_WITH"
)

// Valid reports whether the kind is one the repository may create between
// two users.
func (k ConnectionKind) Valid() bool {
	return k == ConnectionKnows || k == ConnectionSharedWith
}
