package dto

import "github.com/google/uuid"

// ProfileInvalidatedMessage is queued when a profile field that feeds
// recommendations changes, so the cache can be rebuilt off the request
// path.
type ProfileInvalidatedMessage struct {
	UserId uuid.UUID `json:"user_id"`
}
