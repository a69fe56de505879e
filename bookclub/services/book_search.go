package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/database/repositories"
)

// bookTitles implements fuzzy.Source over a catalog slice.
type bookTitles []*models.Book

func (b bookTitles) String(i int) string { return strings.ToLower(b[i].Title) }
func (b bookTitles) Len() int            { return len(b) }

// BookSearch resolves free-form title input against a club's catalog, for
// admin commands and autocomplete.
type BookSearch struct {
	books repositories.BookRepository
}

func NewBookSearch(books repositories.BookRepository) *BookSearch {
	return &BookSearch{books: books}
}

// Find returns catalog books matching the query, best match first, capped
// at limit. An empty query returns the catalog head as-is.
func (s *BookSearch) Find(ctx context.Context, clubID int64, query string, limit int) ([]*models.Book, error) {
	books, err := s.books.GetByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		if len(books) > limit {
			books = books[:limit]
		}
		return books, nil
	}

	matches := fuzzy.FindFrom(query, bookTitles(books))
	out := make([]*models.Book, 0, limit)
	for _, m := range matches {
		out = append(out, books[m.Index])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
