package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/uptrace/bun"
)

type DailyLogRepository interface {
	// FindByUserAndDate returns (nil, nil) when no log exists for the day.
	FindByUserAndDate(ctx context.Context, userID int64, date time.Time) (*models.DailyLog, error)
	Create(ctx context.Context, log *models.DailyLog) error
	Update(ctx context.Context, log *models.DailyLog) error
	SumPages(ctx context.Context, userID int64) (int, error)
	// GetRange lists the user's logs with date in [from, to), oldest first.
	GetRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.DailyLog, error)
	// SumPagesBetween totals both categories over [from, to).
	SumPagesBetween(ctx context.Context, userID int64, from, to time.Time) (int, error)
	CountByStatus(ctx context.Context, userID int64, status models.LogStatus) (int, error)
}

type dailyLogRepository struct {
	db *bun.DB
}

func NewDailyLogRepository(db *bun.DB) DailyLogRepository {
	return &dailyLogRepository{db: db}
}

func (r *dailyLogRepository) FindByUserAndDate(ctx context.Context, userID int64, date time.Time) (*models.DailyLog, error) {
	log := new(models.DailyLog)
	err := r.db.NewSelect().
		Model(log).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

func (r *dailyLogRepository) Create(ctx context.Context, log *models.DailyLog) error {
	log.CreatedAt = time.Now()
	log.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(log).Exec(ctx)
	return err
}

func (r *dailyLogRepository) Update(ctx context.Context, log *models.DailyLog) error {
	log.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(log).
		WherePK().
		Exec(ctx)
	return err
}

func (r *dailyLogRepository) SumPages(ctx context.Context, userID int64) (int, error) {
	var total int
	err := r.db.NewSelect().
		ColumnExpr("COALESCE(SUM(pages_read_prl + pages_read_rnk), 0)").
		Model((*models.DailyLog)(nil)).
		Where("user_id = ?", userID).
		Scan(ctx, &total)
	return total, err
}

func (r *dailyLogRepository) GetRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.DailyLog, error) {
	var logs []*models.DailyLog
	err := r.db.NewSelect().
		Model(&logs).
		Where("user_id = ?", userID).
		Where("date >= ?", from.Format("2006-01-02")).
		Where("date < ?", to.Format("2006-01-02")).
		Order("date ASC").
		Scan(ctx)
	return logs, err
}

func (r *dailyLogRepository) SumPagesBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	var total int
	err := r.db.NewSelect().
		ColumnExpr("COALESCE(SUM(pages_read_prl + pages_read_rnk), 0)").
		Model((*models.DailyLog)(nil)).
		Where("user_id = ?", userID).
		Where("date >= ?", from.Format("2006-01-02")).
		Where("date < ?", to.Format("2006-01-02")).
		Scan(ctx, &total)
	return total, err
}

func (r *dailyLogRepository) CountByStatus(ctx context.Context, userID int64, status models.LogStatus) (int, error) {
	return r.db.NewSelect().
		Model((*models.DailyLog)(nil)).
		Where("user_id = ?", userID).
		Where("status = ?", status).
		Count(ctx)
}
