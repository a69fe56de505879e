package migration

import "time"

// Mongo document shapes as the legacy bot stored them. Field names follow
// the old collections exactly, hence the lowercase bson tags.

type MongoClub struct {
	Name     string `bson:"name"`
	Key      string `bson:"key"`
	GoalType string `bson:"goal_type"`
	MinPRL   int    `bson:"min_prl"`
	MinRNK   int    `bson:"min_rnk"`
	MinTotal int    `bson:"min_total"`
}

type MongoUser struct {
	DiscordID  string    `bson:"discord_id"`
	Username   string    `bson:"username"`
	ClubKey    string    `bson:"club_key"`
	XP         int       `bson:"xp"`
	Level      int       `bson:"level"`
	Streak     int       `bson:"streak"`
	BestStreak int       `bson:"best_streak"`
	Grace      bool      `bson:"grace"`
	Joined     time.Time `bson:"joined"`
}

type MongoBook struct {
	ClubKey  string `bson:"club_key"`
	Title    string `bson:"title"`
	Category string `bson:"category"`
	Pages    int    `bson:"pages"`
	Priority int    `bson:"priority"`
}

type MongoUserBook struct {
	DiscordID   string     `bson:"discord_id"`
	Title       string     `bson:"title"`
	PagesRead   int        `bson:"pages_read"`
	TotalPages  int        `bson:"total_pages"`
	Finished    bool       `bson:"finished"`
	FinishedAt  *time.Time `bson:"finished_at"`
	Recommended bool       `bson:"recommended"`
	Bonus       bool       `bson:"bonus_claimed"`
}

type MongoDailyLog struct {
	DiscordID string    `bson:"discord_id"`
	Date      time.Time `bson:"date"`
	PagesPRL  int       `bson:"pages_prl"`
	PagesRNK  int       `bson:"pages_rnk"`
	Status    string    `bson:"status"`
}

// TableStats tracks per-collection import counts.
type TableStats struct {
	Read     int
	Imported int
	Skipped  int
}

type ImportStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
	EndTime   time.Time
}

func (s *ImportStats) table(name string) *TableStats {
	if s.Tables == nil {
		s.Tables = make(map[string]*TableStats)
	}
	t, ok := s.Tables[name]
	if !ok {
		t = &TableStats{}
		s.Tables[name] = t
	}
	return t
}
