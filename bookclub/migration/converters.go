package migration

import (
	"strings"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
)

func convertClub(mc MongoClub) *models.Club {
	goal := models.GoalTypeSeparate
	if strings.EqualFold(mc.GoalType, "overall") {
		goal = models.GoalTypeOverall
	}
	return &models.Club{
		Name:          strings.TrimSpace(mc.Name),
		Key:           strings.TrimSpace(mc.Key),
		GoalType:      goal,
		DailyMinPRL:   mc.MinPRL,
		DailyMinRNK:   mc.MinRNK,
		DailyMinTotal: mc.MinTotal,
	}
}

func convertUser(mu MongoUser, clubID *int64) *models.User {
	joined := mu.Joined
	if joined.IsZero() {
		joined = time.Now()
	}
	level := mu.Level
	if level < 1 {
		level = 1
	}
	return &models.User{
		DiscordID:         strings.TrimSpace(mu.DiscordID),
		Username:          mu.Username,
		ClubID:            clubID,
		XP:                int64(mu.XP),
		Level:             level,
		Streak:            mu.Streak,
		BestStreak:        mu.BestStreak,
		GracePeriodActive: mu.Grace,
		JoinedAt:          joined,
	}
}

func convertBook(mb MongoBook, clubID int64) *models.Book {
	category := models.CategoryPRL
	if strings.EqualFold(mb.Category, string(models.CategoryRNK)) {
		category = models.CategoryRNK
	}
	tier := mb.Priority
	if tier < models.PriorityTierHighest || tier > models.PriorityTierDefault {
		tier = models.PriorityTierDefault
	}
	return &models.Book{
		ClubID:       clubID,
		Title:        strings.TrimSpace(mb.Title),
		Category:     category,
		TotalPages:   mb.Pages,
		PriorityTier: tier,
	}
}

func convertUserBook(mub MongoUserBook, userID, bookID int64) *models.UserBook {
	total := mub.TotalPages
	if total <= 0 {
		total = mub.PagesRead
	}
	pages := mub.PagesRead
	if pages > total {
		pages = total
	}
	return &models.UserBook{
		UserID:        userID,
		BookID:        bookID,
		CurrentPage:   pages,
		TotalPages:    total,
		Finished:      mub.Finished,
		FinishedDate:  mub.FinishedAt,
		IsRecommended: mub.Recommended,
		BonusClaimed:  mub.Bonus,
	}
}

func convertDailyLog(ml MongoDailyLog, userID int64) *models.DailyLog {
	return &models.DailyLog{
		UserID:       userID,
		Date:         time.Date(ml.Date.Year(), ml.Date.Month(), ml.Date.Day(), 0, 0, 0, 0, time.UTC),
		PagesReadPRL: ml.PagesPRL,
		PagesReadRNK: ml.PagesRNK,
		Status:       convertStatus(ml.Status),
	}
}

func convertStatus(s string) models.LogStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "achieved", "done":
		return models.StatusAchieved
	case "read_not_enough", "partial":
		return models.StatusReadNotEnough
	case "not_read":
		return models.StatusNotRead
	case "missed":
		return models.StatusMissed
	default:
		return models.StatusPending
	}
}
