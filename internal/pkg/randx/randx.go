// Package randx generates unique identifiers for stored objects.
package randx

import "github.com/google/uuid"

// FileID generates a standard UUID v4 string to serve as a unique object file name.
func FileID() string {
	return uuid.New().String()
}
