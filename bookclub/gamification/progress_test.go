package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/okubot/bookclub/bookclub/database/models"
)

func TestReportPagesAdvances(t *testing.T) {
	ub := &models.UserBook{CurrentPage: 10, TotalPages: 50}

	res := ReportPages(ub, 15, testDay)
	assert.Equal(t, 15, res.PagesAccepted)
	assert.False(t, res.Capped)
	assert.False(t, res.Finished)
	assert.Equal(t, 25, ub.CurrentPage)
}

func TestReportPagesCapsOverClaim(t *testing.T) {
	ub := &models.UserBook{CurrentPage: 45, TotalPages: 50}

	res := ReportPages(ub, 20, testDay)
	assert.Equal(t, 5, res.PagesAccepted)
	assert.True(t, res.Capped)
	assert.True(t, res.Finished)
	assert.Equal(t, 50, ub.CurrentPage)
	assert.True(t, ub.Finished)
	if assert.NotNil(t, ub.FinishedDate) {
		assert.Equal(t, testDay, *ub.FinishedDate)
	}
}

func TestReportPagesExactFinish(t *testing.T) {
	ub := &models.UserBook{CurrentPage: 40, TotalPages: 50}

	res := ReportPages(ub, 10, testDay)
	assert.Equal(t, 10, res.PagesAccepted)
	assert.False(t, res.Capped)
	assert.True(t, res.Finished)
}

func TestReportPagesFinishedBookIsInert(t *testing.T) {
	done := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ub := &models.UserBook{CurrentPage: 50, TotalPages: 50, Finished: true, FinishedDate: &done}

	res := ReportPages(ub, 10, testDay)
	assert.Zero(t, res.PagesAccepted)
	assert.False(t, res.Finished)
	assert.Equal(t, 50, ub.CurrentPage)
	assert.Equal(t, done, *ub.FinishedDate, "finish date never rewrites")
}

func TestReportPagesNonPositiveClaim(t *testing.T) {
	ub := &models.UserBook{CurrentPage: 10, TotalPages: 50}

	for _, claimed := range []int{0, -5} {
		res := ReportPages(ub, claimed, testDay)
		assert.Zero(t, res.PagesAccepted)
		assert.Equal(t, 10, ub.CurrentPage)
	}
}

func TestCompletionXP(t *testing.T) {
	ub := &models.UserBook{Finished: true}
	assert.Equal(t, int64(XPBookFinished), CompletionXP(ub))
}

func TestCompletionXPRecommendedBonusOnce(t *testing.T) {
	ub := &models.UserBook{Finished: true, IsRecommended: true}

	assert.Equal(t, int64(XPBookFinished+XPCompletionBonus), CompletionXP(ub))
	assert.True(t, ub.BonusClaimed)
	assert.Equal(t, int64(XPBookFinished), CompletionXP(ub), "bonus pays out exactly once")
}
