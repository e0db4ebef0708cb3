package tool

import "github.com/google/uuid"

const maxTraceIDLen = 128

// GenerateUUIDV7 returns a time-ordered id for primary keys.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

func NewTraceID() string {
	return uuid.NewString()
}

// ValidTraceID accepts client supplied request ids made of printable ASCII,
// at most 128 bytes long.
func ValidTraceID(s string) bool {
	if s == "" || len(s) > maxTraceIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
