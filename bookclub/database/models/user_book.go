package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserBook ties a user to a book they are reading. CurrentPage only ever
// moves forward and Finished never reverts once set.
type UserBook struct {
	bun.BaseModel `bun:"table:user_books,alias:ub"`

	ID     int64 `bun:"id,pk,autoincrement"`
	UserID int64 `bun:"user_id,notnull"`
	BookID int64 `bun:"book_id,notnull"`

	CurrentPage int `bun:"current_page,notnull,default:0"`
	// Page count as the reader's edition has it; may differ from the
	// catalog entry, so it is tracked per reading.
	TotalPages int `bun:"total_pages,notnull,default:0"`

	Finished     bool       `bun:"finished,notnull,default:false"`
	FinishedDate *time.Time `bun:"finished_date"`

	// Recommendation bookkeeping. BonusClaimed guards the one-time
	// completion bonus.
	IsRecommended bool `bun:"is_recommended,notnull,default:false"`
	BonusClaimed  bool `bun:"recommendation_bonus_claimed,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
	Book *Book `bun:"rel:belongs-to,join:book_id=id"`
}

// PagesRemaining never goes below zero even if the catalog page count was
// corrected downwards after the fact.
func (ub *UserBook) PagesRemaining() int {
	if r := ub.TotalPages - ub.CurrentPage; r > 0 {
		return r
	}
	return 0
}
