package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okubot/bookclub/bookclub/database/models"
)

type fakeBookRepo struct {
	books []*models.Book
}

func (r *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	r.books = append(r.books, book)
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id int64) (*models.Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) GetByClub(_ context.Context, clubID int64) ([]*models.Book, error) {
	var out []*models.Book
	for _, b := range r.books {
		if b.ClubID == clubID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) GetByClubAndCategory(_ context.Context, clubID int64, category models.BookCategory) ([]*models.Book, error) {
	var out []*models.Book
	for _, b := range r.books {
		if b.ClubID == clubID && b.Category == category {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) Update(_ context.Context, _ *models.Book) error { return nil }
func (r *fakeBookRepo) Delete(_ context.Context, _ int64) error        { return nil }

func testCatalog() *fakeBookRepo {
	return &fakeBookRepo{books: []*models.Book{
		{ID: 1, ClubID: 1, Title: "The Left Hand of Darkness", Category: models.CategoryPRL},
		{ID: 2, ClubID: 1, Title: "The Dispossessed", Category: models.CategoryPRL},
		{ID: 3, ClubID: 1, Title: "A Wizard of Earthsea", Category: models.CategoryRNK},
		{ID: 4, ClubID: 2, Title: "Solaris", Category: models.CategoryPRL},
	}}
}

func TestBookSearchFind(t *testing.T) {
	s := NewBookSearch(testCatalog())
	ctx := context.Background()

	t.Run("fuzzy match", func(t *testing.T) {
		got, err := s.Find(ctx, 1, "earthsea", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].ID)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, err := s.Find(ctx, 1, "DISPOSSESSED", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})

	t.Run("scoped to club", func(t *testing.T) {
		got, err := s.Find(ctx, 1, "solaris", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty query returns catalog head", func(t *testing.T) {
		got, err := s.Find(ctx, 1, "", 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("limit caps matches", func(t *testing.T) {
		got, err := s.Find(ctx, 1, "the", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := s.Find(ctx, 1, "zzzzzz", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
