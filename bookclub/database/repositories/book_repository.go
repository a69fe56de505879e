package repositories

import (
	"context"
	"time"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/uptrace/bun"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	GetByClub(ctx context.Context, clubID int64) ([]*models.Book, error)
	// GetByClubAndCategory orders by priority tier, then title, so the
	// recommendation engine can take the head of the list.
	GetByClubAndCategory(ctx context.Context, clubID int64, category models.BookCategory) ([]*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *bun.DB
}

func NewBookRepository(db *bun.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.PriorityTier == 0 {
		book.PriorityTier = models.PriorityTierDefault
	}
	book.CreatedAt = time.Now()
	book.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(book).Exec(ctx)
	return err
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	book := new(models.Book)
	err := r.db.NewSelect().
		Model(book).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (r *bookRepository) GetByClub(ctx context.Context, clubID int64) ([]*models.Book, error) {
	var books []*models.Book
	err := r.db.NewSelect().
		Model(&books).
		Where("club_id = ?", clubID).
		Order("category ASC", "priority_tier ASC", "title ASC").
		Scan(ctx)
	return books, err
}

func (r *bookRepository) GetByClubAndCategory(ctx context.Context, clubID int64, category models.BookCategory) ([]*models.Book, error) {
	var books []*models.Book
	err := r.db.NewSelect().
		Model(&books).
		Where("club_id = ?", clubID).
		Where("category = ?", category).
		Order("priority_tier ASC", "title ASC").
		Scan(ctx)
	return books, err
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(book).
		WherePK().
		Exec(ctx)
	return err
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
