package pricing

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	invoiceIDPrefix = "INV-"
	suffixLen       = 4
	base36Digits    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var defaultIDs = NewIDGenerator()

// IDGenerator issues INV-<unix millis>-<4 base-36 chars> identifiers. It
// never returns the same id twice in a row.
type IDGenerator struct {
	mu   sync.Mutex
	last string
	rnd  func(n int) int
}

// NewIDGenerator returns a generator seeded from the runtime's random source.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{rnd: rand.IntN}
}

// Next returns a fresh id stamped with now.
func (g *IDGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	prefix := invoiceIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-"
	for {
		id := prefix + g.suffix()
		if id != g.last {
			g.last = id
			return id
		}
	}
}

func (g *IDGenerator) suffix() string {
	var b strings.Builder
	b.Grow(suffixLen)
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(base36Digits[g.rnd(len(base36Digits))])
	}
	return b.String()
}
