// Package ids generates the opaque identifiers the emulator hands out for
// messages, webhook events and media entries.
package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tokenLength = 12

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// Generator produces process-unique mock identifiers of the shape
// mock_<unixMillis>_<token>. The token is lowercase alphanumeric, taken
// from a random UUID, so ids are unique even within one millisecond.
type Generator struct {
	now Clock
}

func NewGenerator() *Generator {
	return NewGeneratorWithClock(time.Now)
}

func NewGeneratorWithClock(now Clock) *Generator {
	return &Generator{now: now}
}

// Next returns a fresh mock id.
func (g *Generator) Next() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLength]
	return fmt.Sprintf("mock_%d_%s", g.now().UnixMilli(), strings.ToLower(token))
}
