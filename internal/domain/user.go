package domain

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`(?i)^[a-z0-9_.]{3,32}$`)

// ValidUsername reports whether username uses 3-32 letters, digits, '_' or '.'.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// User represents a registered player account.
type User struct {
	ID            uuid.UUID
	Username      string
	Email         string
	PasswordHash  string
	CharacterName string
	CreatedAt     time.Time
}

// MaxSaveBytes caps the serialized size of a player save.
const MaxSaveBytes = 500_000

// PlayerSave is the opaque game-state blob kept per user.
type PlayerSave struct {
	UserID    uuid.UUID
	Data      json.RawMessage
	UpdatedAt time.Time
}

// EmptySaveData is returned when a user has never saved.
var EmptySaveData = json.RawMessage(`{}`)
