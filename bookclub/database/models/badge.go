package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Badge struct {
	bun.BaseModel `bun:"table:badges,alias:bd"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull,unique"`
	Description string `bun:"description"`
	Icon        string `bun:"icon"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UserBadge is append-only: a badge, once earned, is never revoked.
type UserBadge struct {
	bun.BaseModel `bun:"table:user_badges,alias:ubd"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	BadgeID   int64     `bun:"badge_id,notnull"`
	AwardedAt time.Time `bun:"awarded_at,notnull"`

	User  *User  `bun:"rel:belongs-to,join:user_id=id"`
	Badge *Badge `bun:"rel:belongs-to,join:badge_id=id"`
}
