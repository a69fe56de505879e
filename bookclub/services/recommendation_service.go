package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/database/repositories"
	"github.com/okubot/bookclub/bookclub/gamification"
)

var (
	// ErrNothingToRecommend: the club catalog holds no unstarted book in
	// the category.
	ErrNothingToRecommend = errors.New("no book left to recommend")
	// ErrAlreadyReading: the user already has an unfinished recommended
	// book in the category.
	ErrAlreadyReading = errors.New("a recommended book is already in progress")
)

// RecommendationService picks the next book for a user out of the club
// catalog, lowest priority tier first, and pays the selection bonus when
// the pick is accepted.
type RecommendationService struct {
	books       repositories.BookRepository
	userBooks   repositories.UserBookRepository
	progression *gamification.Progression
}

func NewRecommendationService(
	books repositories.BookRepository,
	userBooks repositories.UserBookRepository,
	progression *gamification.Progression,
) *RecommendationService {
	return &RecommendationService{books: books, userBooks: userBooks, progression: progression}
}

// Recommend returns the club's best unstarted book for the user in the
// category. Tier order is stored on the book rows; within a tier, title
// order keeps the pick stable.
func (s *RecommendationService) Recommend(ctx context.Context, user *models.User, category models.BookCategory) (*models.Book, error) {
	if user.ClubID == nil {
		return nil, gamification.ErrNoClubAssigned
	}

	inProgress, err := s.userBooks.HasRecommendedUnfinished(ctx, user.ID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to check open recommendations: %w", err)
	}
	if inProgress {
		return nil, ErrAlreadyReading
	}

	books, err := s.books.GetByClubAndCategory(ctx, *user.ClubID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for _, book := range books {
		existing, err := s.userBooks.GetByUserAndBook(ctx, user.ID, book.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return book, nil
		}
	}
	return nil, ErrNothingToRecommend
}

// Accept adds the recommended book to the user's shelf and pays the
// selection bonus. The reading tracks the catalog page count unless the
// user's edition differs.
func (s *RecommendationService) Accept(ctx context.Context, user *models.User, book *models.Book, totalPages int) (*models.UserBook, bool, error) {
	existing, err := s.userBooks.GetByUserAndBook(ctx, user.ID, book.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return nil, false, fmt.Errorf("book %q is already on the shelf", book.Title)
	}

	if totalPages <= 0 {
		totalPages = book.TotalPages
	}
	ub := &models.UserBook{
		UserID:        user.ID,
		BookID:        book.ID,
		TotalPages:    totalPages,
		IsRecommended: true,
	}
	if err := s.userBooks.Create(ctx, ub); err != nil {
		return nil, false, fmt.Errorf("failed to add reading: %w", err)
	}

	leveledUp, err := s.progression.AwardXP(ctx, user, gamification.XPSelectionBonus)
	if err != nil {
		return nil, false, err
	}

	slog.Info("Recommendation accepted",
		slog.String("type", "progression"),
		slog.Int64("user_id", user.ID),
		slog.String("book", book.Title),
		slog.Int("tier", book.PriorityTier))

	return ub, leveledUp, nil
}

// AddManual adds a catalog book the user picked themselves. No bonus.
func (s *RecommendationService) AddManual(ctx context.Context, user *models.User, book *models.Book, totalPages int) (*models.UserBook, error) {
	existing, err := s.userBooks.GetByUserAndBook(ctx, user.ID, book.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("book %q is already on the shelf", book.Title)
	}

	if totalPages <= 0 {
		totalPages = book.TotalPages
	}
	ub := &models.UserBook{
		UserID:     user.ID,
		BookID:     book.ID,
		TotalPages: totalPages,
	}
	if err := s.userBooks.Create(ctx, ub); err != nil {
		return nil, fmt.Errorf("failed to add reading: %w", err)
	}
	return ub, nil
}
