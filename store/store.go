// Package store is the read-only view of the analytical fact tables.
// It issues raw SQL through bun and never writes; the ingestion jobs own
// all mutation. Transient connectivity failures are retried a bounded
// number of times with exponential backoff.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// GameRow is a flat scan target for game queries, decorated with team
// abbreviations. Spread values are home-perspective.
type GameRow struct {
	GameID     int64     `bun:"game_id"`
	Season     int       `bun:"season"`
	Week       int       `bun:"week"`
	GameDate   time.Time `bun:"game_date"`
	HomeTeamID int       `bun:"home_team_id"`
	AwayTeamID int       `bun:"away_team_id"`
	HomeScore  int       `bun:"home_score"`
	AwayScore  int       `bun:"away_score"`

	SpreadOpen  float64 `bun:"spread_open"`
	SpreadClose float64 `bun:"spread_close"`
	TotalOpen   float64 `bun:"total_open"`
	TotalClose  float64 `bun:"total_close"`
	HomeMLOpen  int     `bun:"home_ml_open"`
	HomeMLClose int     `bun:"home_ml_close"`
	AwayMLOpen  int     `bun:"away_ml_open"`
	AwayMLClose int     `bun:"away_ml_close"`

	IsDivision   bool   `bun:"is_division"`
	IsConference bool   `bun:"is_conference"`
	IsPlayoff    bool   `bun:"is_playoff"`
	RefereeName  string `bun:"referee_name"`

	HomeAbbr string `bun:"home_abbr"`
	AwayAbbr string `bun:"away_abbr"`
}

// PlayerRow is a flat scan target for prop queries: one box-score line
// joined to its game context and player reference data.
type PlayerRow struct {
	GameRow

	BoxID      int64  `bun:"box_id"`
	PlayerID   int    `bun:"player_id"`
	PlayerName string `bun:"player_name"`
	Position   string `bun:"position"`
	TeamID     int    `bun:"team_id"`
	OpponentID int    `bun:"opponent_id"`
	IsHome     bool   `bun:"is_home"`

	PassAttempts    int `bun:"pass_attempts"`
	PassCompletions int `bun:"pass_completions"`
	PassYards       int `bun:"pass_yards"`
	PassTDs         int `bun:"pass_tds"`
	Interceptions   int `bun:"interceptions"`
	RushAttempts    int `bun:"rush_attempts"`
	RushYards       int `bun:"rush_yards"`
	RushTDs         int `bun:"rush_tds"`
	RushLong        int `bun:"rush_long"`
	Targets         int `bun:"targets"`
	Receptions      int `bun:"receptions"`
	ReceivingYards  int `bun:"receiving_yards"`
	ReceivingTDs    int `bun:"receiving_tds"`
	ReceivingLong   int `bun:"receiving_long"`
}

// RankKey addresses one versioned ranking row.
type RankKey struct {
	Season int
	Week   int
	TeamID int
}

// RankRow carries a team's defensive ranks per metric for one (season, week).
type RankRow struct {
	Season int `bun:"season"`
	Week   int `bun:"week"`
	TeamID int `bun:"team_id"`

	PassYardsAllowed      int `bun:"rank_pass_yards_allowed"`
	RushYardsAllowed      int `bun:"rank_rush_yards_allowed"`
	ReceivingYardsAllowed int `bun:"rank_receiving_yards_allowed"`
	PointsAllowed         int `bun:"rank_points_allowed"`
	TotalYardsAllowed     int `bun:"rank_total_yards_allowed"`
}

// GamesFilter narrows a game fetch. Zero values mean "no constraint".
// Only subject identity and absolute calendar bounds belong here: all
// other narrowing happens after windowing, in the engine.
type GamesFilter struct {
	TeamID         int
	OpponentID     int
	RefereeName    string
	RequireReferee bool
	SeasonMin      int
	SeasonMax      int
	Limit          int
}

// PropFilter narrows a box-score fetch for one player.
type PropFilter struct {
	PlayerID   int
	OpponentID int
	SeasonMin  int
	SeasonMax  int
	Limit      int
}

// Querier is the read interface the query engine consumes. Implementations
// must return game lists ordered newest-first.
type Querier interface {
	Games(ctx context.Context, f GamesFilter) ([]GameRow, error)
	PlayerGames(ctx context.Context, f PropFilter) ([]PlayerRow, error)
	DefenseRanks(ctx context.Context, keys []RankKey) (map[RankKey]RankRow, error)
	PrevGame(ctx context.Context, teamID int, before time.Time) (*GameRow, error)
}

// Store implements Querier against PostgreSQL.
type Store struct {
	db       *bun.DB
	log      *zap.Logger
	attempts int
	backoff  time.Duration
}

// New creates a Store. attempts is the total number of tries per query;
// backoff doubles after each failed attempt.
func New(db *bun.DB, log *zap.Logger, attempts int, backoff time.Duration) *Store {
	if attempts < 1 {
		attempts = 1
	}
	return &Store{db: db, log: log, attempts: attempts, backoff: backoff}
}

// withRetry runs fn up to s.attempts times. Context cancellation and
// deadline expiry are terminal: retrying a cancelled query only holds
// resources the caller already gave up on.
func (s *Store) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	delay := s.backoff
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if attempt < s.attempts {
			s.log.Warn("store query failed, retrying",
				zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}
	return err
}
