package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LogStatus is the per-day verdict for a user's reading goal.
type LogStatus string

const (
	StatusPending       LogStatus = "pending"
	StatusAchieved      LogStatus = "achieved"
	StatusReadNotEnough LogStatus = "read_not_enough"
	StatusNotRead       LogStatus = "not_read"
	StatusMissed        LogStatus = "missed"
)

// DailyLog holds one record per user per calendar date; the (user_id, date)
// pair is unique and page totals only accumulate within the day.
type DailyLog struct {
	bun.BaseModel `bun:"table:daily_logs,alias:dl"`

	ID     int64     `bun:"id,pk,autoincrement"`
	UserID int64     `bun:"user_id,notnull"`
	Date   time.Time `bun:"date,notnull,type:date"`

	PagesReadPRL int `bun:"pages_read_prl,notnull,default:0"`
	PagesReadRNK int `bun:"pages_read_rnk,notnull,default:0"`

	Status LogStatus `bun:"status,notnull,default:'pending'"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
}

// TotalPages is the day's combined page count across both categories.
func (l *DailyLog) TotalPages() int {
	return l.PagesReadPRL + l.PagesReadRNK
}
