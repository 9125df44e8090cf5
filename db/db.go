package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/thebettingsean/trends-api/config"
	"github.com/thebettingsean/trends-api/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order. The fact tables are
// owned by the ingestion jobs; creating them here only matters for fresh
// development databases.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Team)(nil),
		(*models.Player)(nil),
		(*models.Game)(nil),
		(*models.BoxScore)(nil),
		(*models.TeamRanking)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'box_scores_no_dupes') THEN ALTER TABLE box_scores ADD CONSTRAINT box_scores_no_dupes UNIQUE (game_id, player_id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'team_rankings_no_dupes') THEN ALTER TABLE team_rankings ADD CONSTRAINT team_rankings_no_dupes UNIQUE (season, week, team_id); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS games_team_date ON games (home_team_id, game_date DESC)`,
		`CREATE INDEX IF NOT EXISTS games_away_date ON games (away_team_id, game_date DESC)`,
		`CREATE INDEX IF NOT EXISTS box_scores_player_date ON box_scores (player_id, game_date DESC)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("index: %v", err)
		}
	}

	return nil
}
