package apierror

import (
	"strings"
	"sync"
)

// PasswordTooLongMessage replaces the hashing layer's 72-byte limit error.
const PasswordTooLongMessage = "Password is too long. Please use at most 72 characters."

// KnownError maps a backend error substring to a friendly message.
type KnownError struct {
	Match   string
	Message string
}

var (
	knownMu     sync.RWMutex
	knownErrors = []KnownError{
		{Match: "password cannot be longer than 72 bytes", Message: PasswordTooLongMessage},
		{Match: "password length exceeds 72 bytes", Message: PasswordTooLongMessage},
	}
)

// RegisterKnown adds a mapping. Matching is case-insensitive and the first
// registered match wins.
func RegisterKnown(match, message string) {
	knownMu.Lock()
	defer knownMu.Unlock()
	knownErrors = append(knownErrors, KnownError{Match: match, Message: message})
}

func lookupKnown(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	knownMu.RLock()
	defer knownMu.RUnlock()
	for _, k := range knownErrors {
		if strings.Contains(lower, strings.ToLower(k.Match)) {
			return k.Message, true
		}
	}
	return "", false
}
