package gamification

import (
	"context"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
)

// In-memory stores, enough to drive the engines without a database.

type memUserStore struct {
	updates int
}

func (s *memUserStore) Update(_ context.Context, _ *models.User) error {
	s.updates++
	return nil
}

type memLogStore struct {
	logs   []*models.DailyLog
	nextID int64
}

func (s *memLogStore) FindByUserAndDate(_ context.Context, userID int64, date time.Time) (*models.DailyLog, error) {
	for _, l := range s.logs {
		if l.UserID == userID && l.Date.Equal(date) {
			return l, nil
		}
	}
	return nil, nil
}

func (s *memLogStore) Create(_ context.Context, log *models.DailyLog) error {
	s.nextID++
	log.ID = s.nextID
	s.logs = append(s.logs, log)
	return nil
}

func (s *memLogStore) Update(_ context.Context, _ *models.DailyLog) error { return nil }

func (s *memLogStore) SumPages(_ context.Context, userID int64) (int, error) {
	total := 0
	for _, l := range s.logs {
		if l.UserID == userID {
			total += l.TotalPages()
		}
	}
	return total, nil
}

type memShelfStore struct {
	readings []*models.UserBook
	// category per reading, by index, for FinishedCategories
	categories []models.BookCategory
}

func (s *memShelfStore) Update(_ context.Context, _ *models.UserBook) error { return nil }

func (s *memShelfStore) CountFinished(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, ub := range s.readings {
		if ub.UserID == userID && ub.Finished {
			n++
		}
	}
	return n, nil
}

func (s *memShelfStore) FinishedCategories(_ context.Context, userID int64) ([]models.BookCategory, error) {
	seen := map[models.BookCategory]bool{}
	var out []models.BookCategory
	for i, ub := range s.readings {
		if ub.UserID == userID && ub.Finished && !seen[s.categories[i]] {
			seen[s.categories[i]] = true
			out = append(out, s.categories[i])
		}
	}
	return out, nil
}

type memBadgeStore struct {
	badges  []*models.Badge
	awarded []*models.UserBadge
	nextID  int64
}

func (s *memBadgeStore) FindByName(_ context.Context, name string) (*models.Badge, error) {
	for _, b := range s.badges {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, nil
}

func (s *memBadgeStore) Create(_ context.Context, badge *models.Badge) error {
	s.nextID++
	badge.ID = s.nextID
	s.badges = append(s.badges, badge)
	return nil
}

func (s *memBadgeStore) HasUserBadge(_ context.Context, userID, badgeID int64) (bool, error) {
	for _, ub := range s.awarded {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBadgeStore) AwardUserBadge(_ context.Context, ub *models.UserBadge) error {
	s.awarded = append(s.awarded, ub)
	return nil
}
