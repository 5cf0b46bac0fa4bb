package handlers

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// generateID generates a random alphanumeric ID
func generateID(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// sanitizeDisplayName trims and bounds a player-chosen name. Empty names get
// a generated fallback so leaderboards always have something to show.
func sanitizeDisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Golfer_" + generateID(6)
	}
	if len(name) > 32 {
		name = name[:32]
	}
	return name
}
