package game

// SessionStatus represents the lifecycle state of a sandbox session
type SessionStatus string

const (
	StatusActive  SessionStatus = "ACTIVE"
	StatusExpired SessionStatus = "EXPIRED"
	StatusClosed  SessionStatus = "CLOSED"
)
