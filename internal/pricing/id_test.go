package pricing

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^INV-\d+-[0-9A-Z]{4}$`)

func TestIDGeneratorFormat(t *testing.T) {
	g := NewIDGenerator()
	now := time.UnixMilli(1760781234567)
	id := g.Next(now)
	require.Regexp(t, idPattern, id)
	require.Contains(t, id, "-1760781234567-")
}

func TestIDGeneratorRedrawsOnCollision(t *testing.T) {
	// zeros for two ids, then ones
	draws := []int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1}
	g := &IDGenerator{rnd: func(int) int {
		v := draws[0]
		draws = draws[1:]
		return v
	}}
	now := time.UnixMilli(1000)

	require.Equal(t, "INV-1000-0000", g.Next(now))
	require.Equal(t, "INV-1000-1111", g.Next(now))
	require.Empty(t, draws)
}

func TestIDGeneratorSameMillisecond(t *testing.T) {
	g := NewIDGenerator()
	now := time.Now()
	prev := g.Next(now)
	for i := 0; i < 1000; i++ {
		next := g.Next(now)
		require.NotEqual(t, prev, next)
		prev = next
	}
}
