package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/uptrace/bun"
)

type UserBookRepository interface {
	Create(ctx context.Context, ub *models.UserBook) error
	GetByID(ctx context.Context, id int64) (*models.UserBook, error)
	// GetByUserAndBook returns (nil, nil) when the user never added the book.
	GetByUserAndBook(ctx context.Context, userID, bookID int64) (*models.UserBook, error)
	// GetActive lists the user's unfinished readings, Book relation loaded.
	GetActive(ctx context.Context, userID int64) ([]*models.UserBook, error)
	GetAllByUser(ctx context.Context, userID int64) ([]*models.UserBook, error)
	Update(ctx context.Context, ub *models.UserBook) error
	CountFinished(ctx context.Context, userID int64) (int, error)
	FinishedCategories(ctx context.Context, userID int64) ([]models.BookCategory, error)
	// FinishedBetween lists readings finished in [from, to), for weekly
	// summaries.
	FinishedBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.UserBook, error)
	// HasRecommendedUnfinished reports whether the user already reads a
	// recommended book in the category.
	HasRecommendedUnfinished(ctx context.Context, userID int64, category models.BookCategory) (bool, error)
	// MostRead lists the club's books by how many members currently read
	// them, most popular first.
	MostRead(ctx context.Context, clubID int64, limit int) ([]BookReaders, error)
}

// BookReaders pairs a catalog book with its current reader count.
type BookReaders struct {
	Book    *models.Book
	Readers int
}

type userBookRepository struct {
	db *bun.DB
}

func NewUserBookRepository(db *bun.DB) UserBookRepository {
	return &userBookRepository{db: db}
}

func (r *userBookRepository) Create(ctx context.Context, ub *models.UserBook) error {
	ub.CreatedAt = time.Now()
	ub.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(ub).Exec(ctx)
	return err
}

func (r *userBookRepository) GetByID(ctx context.Context, id int64) (*models.UserBook, error) {
	ub := new(models.UserBook)
	err := r.db.NewSelect().
		Model(ub).
		Relation("Book").
		Where("ub.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return ub, nil
}

func (r *userBookRepository) GetByUserAndBook(ctx context.Context, userID, bookID int64) (*models.UserBook, error) {
	ub := new(models.UserBook)
	err := r.db.NewSelect().
		Model(ub).
		Where("ub.user_id = ?", userID).
		Where("ub.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return ub, nil
}

func (r *userBookRepository) GetActive(ctx context.Context, userID int64) ([]*models.UserBook, error) {
	var readings []*models.UserBook
	err := r.db.NewSelect().
		Model(&readings).
		Relation("Book").
		Where("ub.user_id = ?", userID).
		Where("NOT ub.finished").
		Order("ub.created_at ASC").
		Scan(ctx)
	return readings, err
}

func (r *userBookRepository) GetAllByUser(ctx context.Context, userID int64) ([]*models.UserBook, error) {
	var readings []*models.UserBook
	err := r.db.NewSelect().
		Model(&readings).
		Relation("Book").
		Where("ub.user_id = ?", userID).
		Order("ub.created_at ASC").
		Scan(ctx)
	return readings, err
}

func (r *userBookRepository) Update(ctx context.Context, ub *models.UserBook) error {
	ub.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(ub).
		WherePK().
		Exec(ctx)
	return err
}

func (r *userBookRepository) CountFinished(ctx context.Context, userID int64) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserBook)(nil)).
		Where("user_id = ?", userID).
		Where("finished").
		Count(ctx)
}

func (r *userBookRepository) FinishedCategories(ctx context.Context, userID int64) ([]models.BookCategory, error) {
	var categories []models.BookCategory
	err := r.db.NewSelect().
		ColumnExpr("DISTINCT b.category").
		Model((*models.UserBook)(nil)).
		Join("JOIN books AS b ON b.id = ub.book_id").
		Where("ub.user_id = ?", userID).
		Where("ub.finished").
		Scan(ctx, &categories)
	return categories, err
}

func (r *userBookRepository) FinishedBetween(ctx context.Context, userID int64, from, to time.Time) ([]*models.UserBook, error) {
	var readings []*models.UserBook
	err := r.db.NewSelect().
		Model(&readings).
		Relation("Book").
		Where("ub.user_id = ?", userID).
		Where("ub.finished_date >= ?", from).
		Where("ub.finished_date < ?", to).
		Order("ub.finished_date ASC").
		Scan(ctx)
	return readings, err
}

func (r *userBookRepository) HasRecommendedUnfinished(ctx context.Context, userID int64, category models.BookCategory) (bool, error) {
	return r.db.NewSelect().
		Model((*models.UserBook)(nil)).
		Join("JOIN books AS b ON b.id = ub.book_id").
		Where("ub.user_id = ?", userID).
		Where("ub.is_recommended").
		Where("NOT ub.finished").
		Where("b.category = ?", category).
		Exists(ctx)
}

func (r *userBookRepository) MostRead(ctx context.Context, clubID int64, limit int) ([]BookReaders, error) {
	var rows []struct {
		BookID  int64 `bun:"book_id"`
		Readers int   `bun:"readers"`
	}
	err := r.db.NewSelect().
		Model((*models.UserBook)(nil)).
		ColumnExpr("ub.book_id").
		ColumnExpr("COUNT(*) AS readers").
		Join("JOIN books AS b ON b.id = ub.book_id").
		Where("b.club_id = ?", clubID).
		Where("NOT ub.finished").
		GroupExpr("ub.book_id").
		OrderExpr("readers DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]BookReaders, 0, len(rows))
	for _, row := range rows {
		book := new(models.Book)
		if err := r.db.NewSelect().
			Model(book).
			Where("id = ?", row.BookID).
			Scan(ctx); err != nil {
			return nil, err
		}
		out = append(out, BookReaders{Book: book, Readers: row.Readers})
	}
	return out, nil
}
