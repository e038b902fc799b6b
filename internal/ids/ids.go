// Package ids allocates event and whiteboard element identifiers.
//
// Identifiers have the form <prefix>_<8 hex chars>. The suffix is random, so
// uniqueness within a script is probabilistic; collisions are not detected.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

const (
	DefaultEventPrefix   = "event"
	DefaultElementPrefix = "elem"
)

// Generator returns a new identifier for the given prefix.
type Generator func(prefix string) string

// Random is the default Generator. The suffix is the first 8 hex characters
// of a version 4 UUID.
func Random(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// Event returns a random event identifier. An empty prefix uses "event".
func Event(prefix string) string {
	if prefix == "" {
		prefix = DefaultEventPrefix
	}
	return Random(prefix)
}

// Element returns a random element identifier. An empty prefix uses "elem".
func Element(prefix string) string {
	if prefix == "" {
		prefix = DefaultElementPrefix
	}
	return Random(prefix)
}

// NewSequence returns a deterministic Generator that numbers identifiers
// per call: text_00000001, mcq_00000002, ... The counter is shared across
// prefixes and safe for concurrent use.
func NewSequence() Generator {
	var (
		mu sync.Mutex
		n  uint32
	)
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s_%08x", prefix, n)
	}
}
