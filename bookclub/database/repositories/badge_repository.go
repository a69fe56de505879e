package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/uptrace/bun"
)

type BadgeRepository interface {
	// FindByName returns (nil, nil) when the badge is not in the catalog.
	FindByName(ctx context.Context, name string) (*models.Badge, error)
	Create(ctx context.Context, badge *models.Badge) error
	GetAll(ctx context.Context) ([]*models.Badge, error)
	HasUserBadge(ctx context.Context, userID, badgeID int64) (bool, error)
	AwardUserBadge(ctx context.Context, ub *models.UserBadge) error
	// GetUserBadges lists a user's grants with the Badge relation loaded,
	// in award order.
	GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error)
}

type badgeRepository struct {
	db *bun.DB
}

func NewBadgeRepository(db *bun.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) FindByName(ctx context.Context, name string) (*models.Badge, error) {
	badge := new(models.Badge)
	err := r.db.NewSelect().
		Model(badge).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return badge, nil
}

func (r *badgeRepository) Create(ctx context.Context, badge *models.Badge) error {
	badge.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(badge).Exec(ctx)
	return err
}

func (r *badgeRepository) GetAll(ctx context.Context) ([]*models.Badge, error) {
	var badges []*models.Badge
	err := r.db.NewSelect().
		Model(&badges).
		Order("id ASC").
		Scan(ctx)
	return badges, err
}

func (r *badgeRepository) HasUserBadge(ctx context.Context, userID, badgeID int64) (bool, error) {
	return r.db.NewSelect().
		Model((*models.UserBadge)(nil)).
		Where("user_id = ?", userID).
		Where("badge_id = ?", badgeID).
		Exists(ctx)
}

func (r *badgeRepository) AwardUserBadge(ctx context.Context, ub *models.UserBadge) error {
	_, err := r.db.NewInsert().Model(ub).Exec(ctx)
	return err
}

func (r *badgeRepository) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	var grants []*models.UserBadge
	err := r.db.NewSelect().
		Model(&grants).
		Relation("Badge").
		Where("ubd.user_id = ?", userID).
		Order("ubd.awarded_at ASC").
		Scan(ctx)
	return grants, err
}
