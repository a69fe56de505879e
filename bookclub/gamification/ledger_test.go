package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okubot/bookclub/bookclub/database/models"
)

var testDay = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func TestLedgerAccumulateCreatesOnFirstReport(t *testing.T) {
	logs := &memLogStore{}
	ledger := NewLedger(logs)

	log, err := ledger.Accumulate(context.Background(), 1, testDay, models.CategoryPRL, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, log.PagesReadPRL)
	assert.Equal(t, 0, log.PagesReadRNK)
	assert.Equal(t, models.StatusPending, log.Status)
	assert.Len(t, logs.logs, 1)
}

func TestLedgerAccumulateAddsWithinDay(t *testing.T) {
	logs := &memLogStore{}
	ledger := NewLedger(logs)
	ctx := context.Background()

	_, err := ledger.Accumulate(ctx, 1, testDay, models.CategoryPRL, 10)
	require.NoError(t, err)
	_, err = ledger.Accumulate(ctx, 1, testDay, models.CategoryRNK, 5)
	require.NoError(t, err)
	log, err := ledger.Accumulate(ctx, 1, testDay, models.CategoryPRL, 7)
	require.NoError(t, err)

	assert.Equal(t, 17, log.PagesReadPRL)
	assert.Equal(t, 5, log.PagesReadRNK)
	assert.Equal(t, 22, log.TotalPages())
	assert.Len(t, logs.logs, 1, "same day accumulates into one log")
}

func TestLedgerAccumulateSeparateDays(t *testing.T) {
	logs := &memLogStore{}
	ledger := NewLedger(logs)
	ctx := context.Background()

	_, err := ledger.Accumulate(ctx, 1, testDay, models.CategoryPRL, 10)
	require.NoError(t, err)
	_, err = ledger.Accumulate(ctx, 1, testDay.AddDate(0, 0, 1), models.CategoryPRL, 10)
	require.NoError(t, err)

	assert.Len(t, logs.logs, 2)
}

func TestLedgerAccumulateRejectsBadInput(t *testing.T) {
	ledger := NewLedger(&memLogStore{})
	ctx := context.Background()

	_, err := ledger.Accumulate(ctx, 1, testDay, models.CategoryPRL, -1)
	assert.Error(t, err)
	_, err = ledger.Accumulate(ctx, 1, testDay, models.BookCategory("FIC"), 5)
	assert.Error(t, err)
}

func TestLedgerFinalizeNoClub(t *testing.T) {
	ledger := NewLedger(&memLogStore{})
	user := &models.User{ID: 1}

	_, _, err := ledger.Finalize(context.Background(), user, testDay)
	assert.ErrorIs(t, err, ErrNoClubAssigned)
}

func TestLedgerFinalizeWritesStatus(t *testing.T) {
	logs := &memLogStore{}
	ledger := NewLedger(logs)
	ctx := context.Background()

	clubID := int64(7)
	user := &models.User{
		ID:     1,
		ClubID: &clubID,
		Club:   &models.Club{ID: clubID, GoalType: models.GoalTypeOverall, DailyMinTotal: 10},
	}

	_, err := ledger.Accumulate(ctx, 1, testDay, models.CategoryPRL, 4)
	require.NoError(t, err)

	status, prev, err := ledger.Finalize(ctx, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReadNotEnough, status)
	assert.Equal(t, models.StatusPending, prev)

	_, err = ledger.Accumulate(ctx, 1, testDay, models.CategoryRNK, 6)
	require.NoError(t, err)

	status, prev, err = ledger.Finalize(ctx, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAchieved, status)
	assert.Equal(t, models.StatusReadNotEnough, prev)
}

func TestLedgerFinalizeUnderGrace(t *testing.T) {
	logs := &memLogStore{}
	ledger := NewLedger(logs)
	ctx := context.Background()

	clubID := int64(7)
	user := &models.User{
		ID:                1,
		ClubID:            &clubID,
		GracePeriodActive: true,
		Club:              &models.Club{ID: clubID, GoalType: models.GoalTypeOverall, DailyMinTotal: 10},
	}

	_, err := ledger.Accumulate(ctx, 1, testDay, models.CategoryPRL, 15)
	require.NoError(t, err)

	status, _, err := ledger.Finalize(ctx, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReadNotEnough, status, "grace doubles the bar to 20")

	_, err = ledger.Accumulate(ctx, 1, testDay, models.CategoryPRL, 5)
	require.NoError(t, err)

	status, _, err = ledger.Finalize(ctx, user, testDay)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAchieved, status)
}

func TestLedgerFinalizeCreatesMissingLog(t *testing.T) {
	logs := &memLogStore{}
	ledger := NewLedger(logs)

	clubID := int64(7)
	user := &models.User{
		ID:     1,
		ClubID: &clubID,
		Club:   &models.Club{ID: clubID, GoalType: models.GoalTypeOverall, DailyMinTotal: 10},
	}

	status, prev, err := ledger.Finalize(context.Background(), user, testDay)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotRead, status)
	assert.Equal(t, models.StatusPending, prev)
	assert.Len(t, logs.logs, 1)
}
