package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/okubot/bookclub/bookclub/clock"
	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/database/repositories"
)

// WeeklySummary aggregates one user's week for the Sunday digest.
type WeeklySummary struct {
	Pages         int
	DaysAchieved  int
	BooksFinished []string
}

// MemberDay pairs a club member with their log for one date. A nil Log
// means the member never appeared that day.
type MemberDay struct {
	User *models.User
	Log  *models.DailyLog
}

// ProfileStats backs the /profile embed.
type ProfileStats struct {
	TotalPages    int
	BooksFinished int
	DaysAchieved  int
	BadgeCount    int
}

// ReadingStats holds the averages block of /profile. Averages are pages
// per day; a zero DaysToFinish means no estimate was possible.
type ReadingStats struct {
	WeeklyAvg      float64
	MonthlyAvg     float64
	AllTimeAvg     float64
	BestWeekday    time.Weekday
	HasBestWeekday bool
	DaysToFinish   int
}

// ClubPulse summarizes a club's day for the block shown after a report.
type ClubPulse struct {
	Members  int
	Achieved int
	Partial  int
	NotRead  int
	Pending  int
	// Rank is the invoking user's page rank today, 1-based; 0 when the
	// user has no log.
	Rank int
}

// StatsService assembles read-side aggregates for commands and scheduled
// reports. It never mutates state.
type StatsService struct {
	users     repositories.UserRepository
	logs      repositories.DailyLogRepository
	userBooks repositories.UserBookRepository
	badges    repositories.BadgeRepository
}

func NewStatsService(
	users repositories.UserRepository,
	logs repositories.DailyLogRepository,
	userBooks repositories.UserBookRepository,
	badges repositories.BadgeRepository,
) *StatsService {
	return &StatsService{users: users, logs: logs, userBooks: userBooks, badges: badges}
}

// Profile collects the lifetime numbers for one user.
func (s *StatsService) Profile(ctx context.Context, userID int64) (*ProfileStats, error) {
	pages, err := s.logs.SumPages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pages: %w", err)
	}
	finished, err := s.userBooks.CountFinished(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count finished books: %w", err)
	}
	achieved, err := s.logs.CountByStatus(ctx, userID, models.StatusAchieved)
	if err != nil {
		return nil, fmt.Errorf("failed to count achieved days: %w", err)
	}
	grants, err := s.badges.GetUserBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	return &ProfileStats{
		TotalPages:    pages,
		BooksFinished: finished,
		DaysAchieved:  achieved,
		BadgeCount:    len(grants),
	}, nil
}

// Reading computes the averages block for /profile. The all-time average
// divides by days since the user joined, the weekday favorite scans the
// user's whole log history.
func (s *StatsService) Reading(ctx context.Context, user *models.User, today time.Time) (*ReadingStats, error) {
	tomorrow := today.AddDate(0, 0, 1)

	pages7, err := s.logs.SumPagesBetween(ctx, user.ID, today.AddDate(0, 0, -6), tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to sum weekly pages: %w", err)
	}
	pages30, err := s.logs.SumPagesBetween(ctx, user.ID, today.AddDate(0, 0, -29), tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly pages: %w", err)
	}
	total, err := s.logs.SumPages(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum pages: %w", err)
	}

	joined := clock.Midnight(user.JoinedAt)
	daysSinceJoin := int(today.Sub(joined).Hours()/24) + 1
	if daysSinceJoin < 1 {
		daysSinceJoin = 1
	}

	stats := &ReadingStats{
		WeeklyAvg:  float64(pages7) / 7,
		MonthlyAvg: float64(pages30) / 30,
		AllTimeAvg: float64(total) / float64(daysSinceJoin),
	}

	logs, err := s.logs.GetRange(ctx, user.ID, joined, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to load log history: %w", err)
	}
	var byWeekday [7]int
	for _, log := range logs {
		byWeekday[log.Date.Weekday()] += log.TotalPages()
	}
	best := 0
	for day, pages := range byWeekday {
		if pages > byWeekday[best] {
			best = day
		}
	}
	if byWeekday[best] > 0 {
		stats.BestWeekday = time.Weekday(best)
		stats.HasBestWeekday = true
	}

	// Naive finish estimate: remaining pages across active readings at the
	// recent daily rate.
	active, err := s.userBooks.GetActive(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active readings: %w", err)
	}
	remaining := 0
	for _, ub := range active {
		remaining += ub.PagesRemaining()
	}
	if rate := float64(pages30) / 30; rate > 0 && remaining > 0 {
		stats.DaysToFinish = int(math.Ceil(float64(remaining) / rate))
	}
	return stats, nil
}

// Pulse condenses ClubDay into the status percentages and the user's page
// rank shown right after a report.
func (s *StatsService) Pulse(ctx context.Context, clubID int64, date time.Time, userID int64) (*ClubPulse, error) {
	days, err := s.ClubDay(ctx, clubID, date)
	if err != nil {
		return nil, err
	}

	pulse := &ClubPulse{Members: len(days)}
	for i, day := range days {
		switch {
		case day.Log == nil:
			pulse.Pending++
		case day.Log.Status == models.StatusAchieved:
			pulse.Achieved++
		case day.Log.Status == models.StatusReadNotEnough:
			pulse.Partial++
		case day.Log.Status == models.StatusNotRead || day.Log.Status == models.StatusMissed:
			pulse.NotRead++
		default:
			pulse.Pending++
		}
		if day.User.ID == userID && day.Log != nil {
			pulse.Rank = i + 1
		}
	}
	return pulse, nil
}

// Weekly aggregates [weekStart, weekStart+7d) for one user.
func (s *StatsService) Weekly(ctx context.Context, userID int64, weekStart time.Time) (*WeeklySummary, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)

	logs, err := s.logs.GetRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly logs: %w", err)
	}

	summary := &WeeklySummary{}
	for _, log := range logs {
		summary.Pages += log.TotalPages()
		if log.Status == models.StatusAchieved {
			summary.DaysAchieved++
		}
	}

	finished, err := s.userBooks.FinishedBetween(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished books: %w", err)
	}
	for _, ub := range finished {
		if ub.Book != nil {
			summary.BooksFinished = append(summary.BooksFinished, ub.Book.Title)
		}
	}
	return summary, nil
}

// ClubDay lists every club member with their log for date, sorted by pages
// read descending. The nightly report renders this directly.
func (s *StatsService) ClubDay(ctx context.Context, clubID int64, date time.Time) ([]MemberDay, error) {
	members, err := s.users.GetByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load club members: %w", err)
	}

	days := make([]MemberDay, 0, len(members))
	for _, member := range members {
		log, err := s.logs.FindByUserAndDate(ctx, member.ID, date)
		if err != nil {
			return nil, err
		}
		days = append(days, MemberDay{User: member, Log: log})
	}

	sort.SliceStable(days, func(i, j int) bool {
		return pagesOf(days[i].Log) > pagesOf(days[j].Log)
	})
	return days, nil
}

// MonthStatuses maps day-of-month to status for the user's calendar image.
func (s *StatsService) MonthStatuses(ctx context.Context, userID int64, monthStart time.Time) (map[int]models.LogStatus, error) {
	monthEnd := monthStart.AddDate(0, 1, 0)
	logs, err := s.logs.GetRange(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	statuses := make(map[int]models.LogStatus, len(logs))
	for _, log := range logs {
		statuses[log.Date.Day()] = log.Status
	}
	return statuses, nil
}

func pagesOf(log *models.DailyLog) int {
	if log == nil {
		return 0
	}
	return log.TotalPages()
}
