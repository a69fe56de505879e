package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GoalType selects how a club's daily goal is evaluated.
type GoalType string

const (
	GoalTypeSeparate GoalType = "SEPARATE"
	GoalTypeOverall  GoalType = "OVERALL"
)

type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:c"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
	Key  string `bun:"key,notnull,unique"`

	// Goal configuration. Exactly one variant is active, selected by GoalType:
	// SEPARATE uses DailyMinPRL/DailyMinRNK, OVERALL uses DailyMinTotal.
	GoalType      GoalType `bun:"goal_type,notnull,default:'SEPARATE'"`
	DailyMinPRL   int      `bun:"daily_min_prl,notnull,default:0"`
	DailyMinRNK   int      `bun:"daily_min_rnk,notnull,default:0"`
	DailyMinTotal int      `bun:"daily_min_total,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	Books []*Book `bun:"rel:has-many,join:id=club_id"`
	Users []*User `bun:"rel:has-many,join:id=club_id"`
}
