package gamification

import (
	"context"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
)

// The engines in this package are handed narrow store interfaces instead of
// reaching for ambient database state; the bun repositories satisfy them.

type UserStore interface {
	Update(ctx context.Context, user *models.User) error
}

type DailyLogStore interface {
	// FindByUserAndDate returns (nil, nil) when no log exists for the day.
	FindByUserAndDate(ctx context.Context, userID int64, date time.Time) (*models.DailyLog, error)
	Create(ctx context.Context, log *models.DailyLog) error
	Update(ctx context.Context, log *models.DailyLog) error
	// SumPages returns the user's all-time page total across both categories.
	SumPages(ctx context.Context, userID int64) (int, error)
}

type BookshelfStore interface {
	Update(ctx context.Context, ub *models.UserBook) error
	CountFinished(ctx context.Context, userID int64) (int, error)
	// FinishedCategories lists the distinct categories of the user's
	// finished books.
	FinishedCategories(ctx context.Context, userID int64) ([]models.BookCategory, error)
}

type BadgeStore interface {
	// FindByName returns (nil, nil) when the badge is not in the catalog.
	FindByName(ctx context.Context, name string) (*models.Badge, error)
	Create(ctx context.Context, badge *models.Badge) error
	HasUserBadge(ctx context.Context, userID, badgeID int64) (bool, error)
	AwardUserBadge(ctx context.Context, ub *models.UserBadge) error
}
