package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/uptrace/bun"
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int64) (*models.Club, error)
	// GetByKey returns (nil, nil) when no club carries the key.
	GetByKey(ctx context.Context, key string) (*models.Club, error)
	GetAll(ctx context.Context) ([]*models.Club, error)
	Update(ctx context.Context, club *models.Club) error
	Delete(ctx context.Context, id int64) error
	CountMembers(ctx context.Context, clubID int64) (int, error)
}

type clubRepository struct {
	db *bun.DB
}

func NewClubRepository(db *bun.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) Create(ctx context.Context, club *models.Club) error {
	club.CreatedAt = time.Now()
	club.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(club).Exec(ctx)
	return err
}

func (r *clubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	club := new(models.Club)
	err := r.db.NewSelect().
		Model(club).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return club, nil
}

func (r *clubRepository) GetByKey(ctx context.Context, key string) (*models.Club, error) {
	club := new(models.Club)
	err := r.db.NewSelect().
		Model(club).
		Where("c.key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return club, nil
}

func (r *clubRepository) GetAll(ctx context.Context) ([]*models.Club, error) {
	var clubs []*models.Club
	err := r.db.NewSelect().
		Model(&clubs).
		Order("name ASC").
		Scan(ctx)
	return clubs, err
}

func (r *clubRepository) Update(ctx context.Context, club *models.Club) error {
	club.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(club).
		WherePK().
		Exec(ctx)
	return err
}

func (r *clubRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Club)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *clubRepository) CountMembers(ctx context.Context, clubID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("club_id = ?", clubID).
		Count(ctx)
}
