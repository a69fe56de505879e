package gamification

// XP awards.
const (
	XPPerPage         = 1
	XPStreakBonus     = 10 // granted each day the streak extends
	XPBookFinished    = 100
	XPSelectionBonus  = 50  // picked the recommended book
	XPCompletionBonus = 100 // finished the recommended book
)

// Badge unlock thresholds.
var (
	StreakThresholds = []int{3, 7, 30}
	PageThresholds   = []int{100, 500, 1000}
	LevelThresholds  = []int{5, 10}
)

// ComebackMinStreak is the recovery bar: a broken streak counts as a
// comeback only once it has been rebuilt to at least this many days.
const ComebackMinStreak = 3
