package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okubot/bookclub/bookclub/database/models"
)

// Importer moves the legacy bot's MongoDB data into Postgres. Runs are
// idempotent; every insert carries an ON CONFLICT DO NOTHING so a crashed
// import can simply be re-run.
type Importer struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	batchSize int
	stats     ImportStats

	// Legacy rows reference each other by natural keys, so the importer
	// keeps resolution maps as it goes.
	clubIDByKey      map[string]int64
	userIDByDiscord  map[string]int64
	bookIDByClubName map[string]int64
}

func NewImporter(pgDB *bun.DB, mongoClient *mongo.Client, dbName string) *Importer {
	return &Importer{
		pgDB:             pgDB,
		mongoDB:          mongoClient.Database(dbName),
		batchSize:        500,
		clubIDByKey:      make(map[string]int64),
		userIDByDiscord:  make(map[string]int64),
		bookIDByClubName: make(map[string]int64),
	}
}

// Connect dials the legacy MongoDB and returns a ready client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// ImportAll runs every step in referential order: clubs before users and
// books, books before readings, users before logs.
func (m *Importer) ImportAll(ctx context.Context) error {
	m.stats.StartTime = time.Now()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"clubs", m.ImportClubs},
		{"users", m.ImportUsers},
		{"books", m.ImportBooks},
		{"userbooks", m.ImportUserBooks},
		{"dailylogs", m.ImportDailyLogs},
	}

	for _, step := range steps {
		slog.Info("Starting import step",
			slog.String("type", "db"),
			slog.String("step", step.name))
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("import failed at step %s: %w", step.name, err)
		}
	}

	m.stats.EndTime = time.Now()
	m.logFinalStats()
	return nil
}

func (m *Importer) ImportClubs(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("clubs").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query clubs: %w", err)
	}
	defer cur.Close(ctx)

	t := m.stats.table("clubs")
	for cur.Next(ctx) {
		var mc MongoClub
		if err := cur.Decode(&mc); err != nil {
			t.Skipped++
			continue
		}
		t.Read++

		club := convertClub(mc)
		if club.Key == "" {
			t.Skipped++
			continue
		}
		if _, err := m.pgDB.NewInsert().Model(club).
			On("CONFLICT (key) DO NOTHING").
			Returning("id").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert club %s: %w", club.Key, err)
		}
		if club.ID == 0 {
			// Conflict path; look the existing row up.
			if err := m.pgDB.NewSelect().Model(club).
				Where("key = ?", club.Key).
				Scan(ctx); err != nil {
				return fmt.Errorf("failed to resolve club %s: %w", club.Key, err)
			}
		}
		m.clubIDByKey[club.Key] = club.ID
		t.Imported++
	}
	return cur.Err()
}

func (m *Importer) ImportUsers(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("users").Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query users: %w", err)
	}
	defer cur.Close(ctx)

	t := m.stats.table("users")
	for cur.Next(ctx) {
		var mu MongoUser
		if err := cur.Decode(&mu); err != nil {
			t.Skipped++
			continue
		}
		t.Read++
		if mu.DiscordID == "" {
			t.Skipped++
			continue
		}

		var clubID *int64
		if id, ok := m.clubIDByKey[mu.ClubKey]; ok {
			clubID = &id
		}

		user := convertUser(mu, clubID)
		user.UpdatedAt = time.Now()
		if _, err := m.pgDB.NewInsert().Model(user).
			On("CONFLICT (discord_id) DO NOTHING").
			Returning("id").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert user %s: %w", user.DiscordID, err)
		}
		if user.ID == 0 {
			if err := m.pgDB.NewSelect().Model(user).
				Where("discord_id = ?", user.DiscordID).
				Scan(ctx); err != nil {
				return fmt.Errorf("failed to resolve user %s: %w", user.DiscordID, err)
			}
		}
		m.userIDByDiscord[user.DiscordID] = user.ID
		t.Imported++
	}
	return cur.Err()
}

func (m *Importer) ImportBooks(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("books").Find(ctx, bson.D{})
	if err != nil {
		slog.Warn("Books collection missing, skipping", slog.String("type", "db"))
		return nil
	}
	defer cur.Close(ctx)

	t := m.stats.table("books")
	for cur.Next(ctx) {
		var mb MongoBook
		if err := cur.Decode(&mb); err != nil {
			t.Skipped++
			continue
		}
		t.Read++

		clubID, ok := m.clubIDByKey[mb.ClubKey]
		if !ok {
			t.Skipped++
			continue
		}

		book := convertBook(mb, clubID)
		if book.Title == "" {
			t.Skipped++
			continue
		}
		book.UpdatedAt = time.Now()
		if _, err := m.pgDB.NewInsert().Model(book).
			Returning("id").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert book %s: %w", book.Title, err)
		}
		m.bookIDByClubName[bookKey(mb.ClubKey, book.Title)] = book.ID
		t.Imported++
	}
	return cur.Err()
}

func (m *Importer) ImportUserBooks(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("userbooks").Find(ctx, bson.D{})
	if err != nil {
		slog.Warn("Userbooks collection missing, skipping", slog.String("type", "db"))
		return nil
	}
	defer cur.Close(ctx)

	t := m.stats.table("userbooks")
	var batch []*models.UserBook
	for cur.Next(ctx) {
		var mub MongoUserBook
		if err := cur.Decode(&mub); err != nil {
			t.Skipped++
			continue
		}
		t.Read++

		userID, ok := m.userIDByDiscord[mub.DiscordID]
		if !ok {
			t.Skipped++
			continue
		}
		bookID, ok := m.resolveBook(mub.Title)
		if !ok {
			t.Skipped++
			continue
		}

		ub := convertUserBook(mub, userID, bookID)
		ub.UpdatedAt = time.Now()
		batch = append(batch, ub)
		t.Imported++

		if len(batch) >= m.batchSize {
			if err := m.flushUserBooks(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return m.flushUserBooks(ctx, batch)
	}
	return nil
}

func (m *Importer) ImportDailyLogs(ctx context.Context) error {
	cur, err := m.mongoDB.Collection("dailylogs").Find(ctx, bson.D{})
	if err != nil {
		slog.Warn("Dailylogs collection missing, skipping", slog.String("type", "db"))
		return nil
	}
	defer cur.Close(ctx)

	t := m.stats.table("dailylogs")
	var batch []*models.DailyLog
	for cur.Next(ctx) {
		var ml MongoDailyLog
		if err := cur.Decode(&ml); err != nil {
			t.Skipped++
			continue
		}
		t.Read++

		userID, ok := m.userIDByDiscord[ml.DiscordID]
		if !ok {
			t.Skipped++
			continue
		}

		log := convertDailyLog(ml, userID)
		log.UpdatedAt = time.Now()
		batch = append(batch, log)
		t.Imported++

		if len(batch) >= m.batchSize {
			if err := m.flushDailyLogs(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return m.flushDailyLogs(ctx, batch)
	}
	return nil
}

func (m *Importer) flushUserBooks(ctx context.Context, batch []*models.UserBook) error {
	if _, err := m.pgDB.NewInsert().Model(&batch).
		On("CONFLICT (user_id, book_id) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert user books batch: %w", err)
	}
	return nil
}

func (m *Importer) flushDailyLogs(ctx context.Context, batch []*models.DailyLog) error {
	if _, err := m.pgDB.NewInsert().Model(&batch).
		On("CONFLICT (user_id, date) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert daily logs batch: %w", err)
	}
	return nil
}

// resolveBook matches a legacy reading to a catalog row by title alone.
// The legacy data keyed userbooks on title, without the club.
func (m *Importer) resolveBook(title string) (int64, bool) {
	for key, id := range m.bookIDByClubName {
		if keyTitle(key) == title {
			return id, true
		}
	}
	return 0, false
}

func bookKey(clubKey, title string) string {
	return clubKey + "\x00" + title
}

func keyTitle(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			return key[i+1:]
		}
	}
	return key
}

func (m *Importer) logFinalStats() {
	for name, t := range m.stats.Tables {
		slog.Info("Import step finished",
			slog.String("type", "db"),
			slog.String("step", name),
			slog.Int("read", t.Read),
			slog.Int("imported", t.Imported),
			slog.Int("skipped", t.Skipped))
	}
	slog.Info("Legacy import completed",
		slog.String("type", "db"),
		slog.Duration("took", m.stats.EndTime.Sub(m.stats.StartTime)))
}
