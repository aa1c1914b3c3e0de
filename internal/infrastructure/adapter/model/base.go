package model

import "github.com/google/uuid"

// ensureID assigns a random UUID when the caller did not pick one
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
