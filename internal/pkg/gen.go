package pkg

import "github.com/google/uuid"

const sessionIDPrefix = "room-"

// GenerateSessionID - generates a unique identifier for the room.
func GenerateSessionID() string {
	return sessionIDPrefix + uuid.NewString()
}

// GenerateConnectionID - generates an identifier for a websocket connection.
func GenerateConnectionID() string {
	return uuid.NewString()
}
