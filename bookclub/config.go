package bookclub

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/okubot/bookclub/bookclub/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.Schedule.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	Bot      BotConfig         `toml:"bot"`
	DB       database.DBConfig `toml:"db"`
	Schedule ScheduleConfig    `toml:"schedule"`
	Spaces   SpacesConfig      `toml:"spaces"`
	Mongo    MongoConfig       `toml:"mongo"`
}

type BotConfig struct {
	Token     string         `toml:"token"`
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	// AdminIDs names the Discord accounts allowed to run /admin
	// subcommands. Empty means nobody.
	AdminIDs []snowflake.ID `toml:"admin_ids"`
	// ReportChannelID receives the nightly and weekly summaries.
	ReportChannelID snowflake.ID `toml:"report_channel_id"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

// ScheduleConfig pins the bot's day cycle to one timezone. All hours are
// wall-clock hours in that zone.
type ScheduleConfig struct {
	Timezone       string `toml:"timezone"`
	CheckInHour    int    `toml:"check_in_hour"`
	FirstReminder  int    `toml:"first_reminder_hour"`
	SecondReminder int    `toml:"second_reminder_hour"`
	// WeeklyDay is the time.Weekday of the weekly summary (0 = Sunday).
	WeeklyDay  int `toml:"weekly_day"`
	WeeklyHour int `toml:"weekly_hour"`
}

func (s *ScheduleConfig) applyDefaults() {
	if s.Timezone == "" {
		s.Timezone = "Etc/GMT-5"
	}
	if s.CheckInHour == 0 {
		s.CheckInHour = 18
	}
	if s.FirstReminder == 0 {
		s.FirstReminder = 20
	}
	if s.SecondReminder == 0 {
		s.SecondReminder = 22
	}
	if s.WeeklyHour == 0 {
		s.WeeklyHour = 20
	}
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Endpoint string `toml:"endpoint"`
	// ImageRoot prefixes every uploaded calendar image key.
	ImageRoot string `toml:"image_root"`
}

// MongoConfig points the importer at a legacy deployment. Unused outside
// the -migrate flow.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// IsAdmin reports whether the Discord account may run admin subcommands.
func (c *Config) IsAdmin(id snowflake.ID) bool {
	for _, admin := range c.Bot.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}
