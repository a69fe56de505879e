package gamification

import (
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
)

// ProgressResult reports what a page claim did to a reading.
type ProgressResult struct {
	PagesAccepted int
	Capped        bool // claim exceeded the pages left; informational, not an error
	Finished      bool // the book was completed by this claim
}

// ReportPages advances a reading by the claimed page count, capping at the
// pages remaining. Over-claiming is policy, not a fault: the accepted count
// comes back so the caller can tell the user. When the book completes, the
// reading is frozen at its total page count and stamped with today's date.
// The caller persists the mutated UserBook and pays out completion bonuses.
func ReportPages(ub *models.UserBook, claimed int, today time.Time) ProgressResult {
	var res ProgressResult
	if claimed <= 0 || ub.Finished {
		return res
	}

	remaining := ub.PagesRemaining()
	res.PagesAccepted = claimed
	if claimed > remaining {
		res.PagesAccepted = remaining
		res.Capped = true
	}
	if res.PagesAccepted == 0 {
		return res
	}

	ub.CurrentPage += res.PagesAccepted
	if ub.CurrentPage >= ub.TotalPages {
		ub.CurrentPage = ub.TotalPages
		ub.Finished = true
		t := today
		ub.FinishedDate = &t
		res.Finished = true
	}
	return res
}

// CompletionXP is the flat book-finish bonus plus, exactly once, the
// recommendation completion bonus. Marks the bonus claimed on the reading.
func CompletionXP(ub *models.UserBook) int64 {
	xp := int64(XPBookFinished)
	if ub.IsRecommended && !ub.BonusClaimed {
		xp += XPCompletionBonus
		ub.BonusClaimed = true
	}
	return xp
}
