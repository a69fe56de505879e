package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByDiscordID returns (nil, nil) when the Discord account is not
	// registered.
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	// GetByDiscordIDWithClub additionally loads the Club relation, which
	// goal evaluation needs.
	GetByDiscordIDWithClub(ctx context.Context, discordID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	GetByClub(ctx context.Context, clubID int64) ([]*models.User, error)
	GetAllWithClub(ctx context.Context) ([]*models.User, error)
	GetLeaderboard(ctx context.Context, clubID int64, limit int) ([]*models.User, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.Level == 0 {
		user.Level = 1
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = time.Now()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Database error when getting user",
			slog.String("type", "db"),
			slog.String("operation", "GetByDiscordID"),
			slog.String("discord_id", discordID),
			slog.String("error", err.Error()))
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByDiscordIDWithClub(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Relation("Club").
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *userRepository) GetByClub(ctx context.Context, clubID int64) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Where("club_id = ?", clubID).
		Order("username ASC").
		Scan(ctx)
	return users, err
}

// GetAllWithClub lists every user that currently belongs to a club, Club
// relation loaded. The scheduled sweeps iterate this set.
func (r *userRepository) GetAllWithClub(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Relation("Club").
		Where("u.club_id IS NOT NULL").
		Order("u.id ASC").
		Scan(ctx)
	return users, err
}

func (r *userRepository) GetLeaderboard(ctx context.Context, clubID int64, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Where("club_id = ?", clubID).
		Order("xp DESC", "streak DESC", "username ASC").
		Limit(limit).
		Scan(ctx)
	return users, err
}
