package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okubot/bookclub/bookclub/clock"
)

func TestDailyAt(t *testing.T) {
	loc, err := time.LoadLocation("Etc/GMT-5")
	require.NoError(t, err)
	clk := clock.Fixed{T: time.Date(2024, 3, 15, 12, 0, 0, 0, loc)}

	next := DailyAt(clk, 18, 0)

	t.Run("before the hour fires same day", func(t *testing.T) {
		after := time.Date(2024, 3, 15, 12, 0, 0, 0, loc)
		assert.Equal(t, time.Date(2024, 3, 15, 18, 0, 0, 0, loc), next(after))
	})

	t.Run("after the hour fires next day", func(t *testing.T) {
		after := time.Date(2024, 3, 15, 19, 30, 0, 0, loc)
		assert.Equal(t, time.Date(2024, 3, 16, 18, 0, 0, 0, loc), next(after))
	})

	t.Run("exactly at the hour fires next day", func(t *testing.T) {
		after := time.Date(2024, 3, 15, 18, 0, 0, 0, loc)
		assert.Equal(t, time.Date(2024, 3, 16, 18, 0, 0, 0, loc), next(after))
	})

	t.Run("utc input converts to the clock zone", func(t *testing.T) {
		// 14:00 UTC is 19:00 in GMT+5, past the trigger.
		after := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
		got := next(after)
		assert.Equal(t, time.Date(2024, 3, 16, 18, 0, 0, 0, loc).Unix(), got.Unix())
	})
}

func TestDailyAtMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Etc/GMT-5")
	require.NoError(t, err)
	clk := clock.Fixed{T: time.Date(2024, 3, 15, 23, 59, 0, 0, loc)}

	next := DailyAt(clk, 0, 0)
	after := time.Date(2024, 3, 15, 23, 59, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, loc), next(after))
}

func TestWeeklyAt(t *testing.T) {
	loc, err := time.LoadLocation("Etc/GMT-5")
	require.NoError(t, err)
	clk := clock.Fixed{T: time.Date(2024, 3, 15, 12, 0, 0, 0, loc)}

	// March 15th 2024 is a Friday.
	next := WeeklyAt(clk, time.Sunday, 20, 0)

	t.Run("fires on the coming sunday", func(t *testing.T) {
		after := time.Date(2024, 3, 15, 12, 0, 0, 0, loc)
		got := next(after)
		assert.Equal(t, time.Sunday, got.Weekday())
		assert.Equal(t, time.Date(2024, 3, 17, 20, 0, 0, 0, loc), got)
	})

	t.Run("sunday before the hour fires same day", func(t *testing.T) {
		after := time.Date(2024, 3, 17, 10, 0, 0, 0, loc)
		assert.Equal(t, time.Date(2024, 3, 17, 20, 0, 0, 0, loc), next(after))
	})

	t.Run("sunday after the hour fires a week later", func(t *testing.T) {
		after := time.Date(2024, 3, 17, 21, 0, 0, 0, loc)
		assert.Equal(t, time.Date(2024, 3, 24, 20, 0, 0, 0, loc), next(after))
	})
}

func TestSchedulerJobChaining(t *testing.T) {
	loc, err := time.LoadLocation("Etc/GMT-5")
	require.NoError(t, err)
	clk := clock.Fixed{T: time.Date(2024, 3, 15, 12, 0, 0, 0, loc)}

	next := DailyAt(clk, 18, 0)
	first := next(clk.Now())
	second := next(first)
	assert.Equal(t, 24*time.Hour, second.Sub(first))
}
