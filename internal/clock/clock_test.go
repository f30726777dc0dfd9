package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockAdvance(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	m := NewMock(start)

	assert.Equal(t, start, m.Now())

	m.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), m.Now())
}

func TestMockSet(t *testing.T) {
	t.Parallel()

	m := NewMock(time.Unix(0, 0))
	target := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	m.Set(target)
	assert.Equal(t, target, m.Now())
}

func TestRealClockTracksSystemTime(t *testing.T) {
	t.Parallel()

	before := time.Now()
	now := RealClock{}.Now()
	after := time.Now()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
}
