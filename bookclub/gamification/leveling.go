package gamification

import "math"

// Level derives a user's level from cumulative XP:
//
//	level(xp) = 1 + floor(sqrt(xp/100))
//
// Negative XP is invalid input and clamps to level 1.
func Level(xp int64) int {
	if xp < 0 {
		return 1
	}
	return 1 + int(math.Sqrt(float64(xp)/100))
}

// XPThreshold returns the cumulative XP at which level+1 begins. The
// progress bar for a user at `level` runs from XPThreshold(level-1) to
// XPThreshold(level).
func XPThreshold(level int) int64 {
	if level < 0 {
		return 0
	}
	return 100 * int64(level) * int64(level)
}

// LevelProgress returns the fraction (0..1) of the way a user is through
// their current level.
func LevelProgress(xp int64, level int) float64 {
	floor := XPThreshold(level - 1)
	ceil := XPThreshold(level)
	if ceil <= floor {
		return 0
	}
	p := float64(xp-floor) / float64(ceil-floor)
	return math.Min(1, math.Max(0, p))
}
