package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DiscordID string `bun:"discord_id,notnull,unique"`
	Username  string `bun:"username"`
	FullName  string `bun:"full_name"`

	// At most one club at a time. Switching clubs only rewrites ClubID;
	// xp, streaks, badges and history stay untouched.
	ClubID *int64 `bun:"club_id"`

	// Gamification state. Level is always recomputed from XP.
	XP    int64 `bun:"xp,notnull,default:0"`
	Level int   `bun:"level,notnull,default:1"`

	// Streak state machine.
	Streak            int  `bun:"streak,notnull,default:0"`
	BestStreak        int  `bun:"best_streak,notnull,default:0"`
	GracePeriodActive bool `bun:"grace_period_active,notnull,default:false"`

	JoinedAt  time.Time `bun:"joined_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	Club     *Club       `bun:"rel:belongs-to,join:club_id=id"`
	Readings []*UserBook `bun:"rel:has-many,join:id=user_id"`
	Logs     []*DailyLog `bun:"rel:has-many,join:id=user_id"`
	Badges   []*UserBadge `bun:"rel:has-many,join:id=user_id"`
}
