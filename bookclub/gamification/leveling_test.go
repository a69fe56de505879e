package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{1600, 5},
		{8100, 10},
		{-50, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.xp), "xp=%d", tt.xp)
	}
}

func TestXPThreshold(t *testing.T) {
	assert.Equal(t, int64(100), XPThreshold(1))
	assert.Equal(t, int64(400), XPThreshold(2))
	assert.Equal(t, int64(2500), XPThreshold(5))
	assert.Equal(t, int64(0), XPThreshold(-1))
}

// A user sitting exactly on a threshold is already the next level: the
// threshold for level n is where level n+1 begins.
func TestLevelThresholdBoundary(t *testing.T) {
	for level := 1; level <= 20; level++ {
		at := XPThreshold(level)
		assert.Equal(t, level+1, Level(at), "at threshold of level %d", level)
		assert.Equal(t, level, Level(at-1), "just below threshold of level %d", level)
	}
}

func TestLevelProgress(t *testing.T) {
	// Level 2 spans 100..400.
	assert.InDelta(t, 0.0, LevelProgress(100, 2), 1e-9)
	assert.InDelta(t, 0.5, LevelProgress(250, 2), 1e-9)
	assert.InDelta(t, 1.0, LevelProgress(400, 2), 1e-9)
	// Out-of-range input clamps rather than overflowing the bar.
	assert.InDelta(t, 0.0, LevelProgress(50, 2), 1e-9)
	assert.InDelta(t, 1.0, LevelProgress(9000, 2), 1e-9)
}
