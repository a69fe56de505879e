package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BookCategory is the catalog split every club shares.
type BookCategory string

const (
	CategoryPRL BookCategory = "PRL"
	CategoryRNK BookCategory = "RNK"
)

// ValidCategory reports whether s names a known book category.
func ValidCategory(s string) bool {
	return BookCategory(s) == CategoryPRL || BookCategory(s) == CategoryRNK
}

const (
	// PriorityTierHighest..PriorityTierDefault bound the recommendation
	// ordering stored on each book. Lower tier is recommended first.
	PriorityTierHighest = 1
	PriorityTierDefault = 8
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int64        `bun:"id,pk,autoincrement"`
	ClubID     int64        `bun:"club_id,notnull"`
	Title      string       `bun:"title,notnull"`
	Category   BookCategory `bun:"category,notnull"`
	TotalPages int          `bun:"total_pages,notnull,default:0"`

	// Recommendation ordering, assigned at creation time.
	PriorityTier int `bun:"priority_tier,notnull,default:8"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	Club *Club `bun:"rel:belongs-to,join:club_id=id"`
}
