package model

import "fmt"

// AuthorizationError is returned when a user asks for an item they do not own.
type AuthorizationError struct {
	ItemID      string
	RequesterID int64
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %d may not access item %s", e.RequesterID, e.ItemID)
}

// Authorize checks that requesterID owns item. Items without an owner are
// denied to everyone.
func Authorize(item Item, requesterID int64) error {
	if item.OwnerID == 0 || requesterID == 0 || item.OwnerID != requesterID {
		return &AuthorizationError{ItemID: item.ID, RequesterID: requesterID}
	}
	return nil
}
