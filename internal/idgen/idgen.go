// Package idgen generates short correlation identifiers used to tie
// together the log lines and ActivationResult produced by a single
// Mode.Enter call.
package idgen

import (
	"github.com/hashicorp/go-uuid"
)

// SessionID returns a fresh random identifier, or a fallback constant
// string if the platform's random source is unavailable (GenerateUUID
// only fails if crypto/rand.Read does, which in practice means the
// host is in a degraded state, not a reason to abort activation).
func SessionID() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "unavailable"
	}
	return id
}
