package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Queries only ever see finalized games: a row with both scores at zero is
// either unplayed or unfinished and can never settle a bet.
const completedGameSQL = `(g.home_score > 0 OR g.away_score > 0)`

const gamesJoinSQL = `
SELECT
	g.game_id, g.season, g.week, g.game_date,
	g.home_team_id, g.away_team_id, g.home_score, g.away_score,
	g.spread_open, g.spread_close, g.total_open, g.total_close,
	g.home_ml_open, g.home_ml_close, g.away_ml_open, g.away_ml_close,
	g.is_division, g.is_conference, g.is_playoff, g.referee_name,
	ht.abbreviation AS home_abbr, at.abbreviation AS away_abbr
FROM games g
LEFT JOIN teams ht ON g.home_team_id = ht.team_id
LEFT JOIN teams at ON g.away_team_id = at.team_id
`

// Games returns finalized games newest-first, narrowed only by subject
// identity and calendar bounds.
func (s *Store) Games(ctx context.Context, f GamesFilter) ([]GameRow, error) {
	conds := []string{completedGameSQL}
	var args []interface{}

	if f.TeamID != 0 {
		if f.OpponentID != 0 {
			conds = append(conds, `((g.home_team_id = ? AND g.away_team_id = ?) OR (g.away_team_id = ? AND g.home_team_id = ?))`)
			args = append(args, f.TeamID, f.OpponentID, f.TeamID, f.OpponentID)
		} else {
			conds = append(conds, `(g.home_team_id = ? OR g.away_team_id = ?)`)
			args = append(args, f.TeamID, f.TeamID)
		}
	}
	if f.RefereeName != "" {
		conds = append(conds, `g.referee_name = ?`)
		args = append(args, f.RefereeName)
	} else if f.RequireReferee {
		conds = append(conds, `g.referee_name != ''`)
	}
	if f.SeasonMin != 0 {
		conds = append(conds, `g.season >= ?`)
		args = append(args, f.SeasonMin)
	}
	if f.SeasonMax != 0 {
		conds = append(conds, `g.season <= ?`)
		args = append(args, f.SeasonMax)
	}

	q := gamesJoinSQL + `WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY g.game_date DESC, g.game_id DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var rows []GameRow
	err := s.withRetry(ctx, "games", func() error {
		rows = rows[:0]
		return s.db.NewRaw(q, args...).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch games: %w", err)
	}
	return rows, nil
}

const playerJoinSQL = `
SELECT
	g.game_id, g.season, g.week, g.game_date,
	g.home_team_id, g.away_team_id, g.home_score, g.away_score,
	g.spread_open, g.spread_close, g.total_open, g.total_close,
	g.home_ml_open, g.home_ml_close, g.away_ml_open, g.away_ml_close,
	g.is_division, g.is_conference, g.is_playoff, g.referee_name,
	ht.abbreviation AS home_abbr, at.abbreviation AS away_abbr,
	b.id AS box_id, b.player_id, b.team_id, b.opponent_id, b.is_home,
	b.pass_attempts, b.pass_completions, b.pass_yards, b.pass_tds, b.interceptions,
	b.rush_attempts, b.rush_yards, b.rush_tds, b.rush_long,
	b.targets, b.receptions, b.receiving_yards, b.receiving_tds, b.receiving_long,
	p.name AS player_name, p.position
FROM box_scores b
INNER JOIN games   g  ON b.game_id = g.game_id
INNER JOIN players p  ON b.player_id = p.player_id
LEFT JOIN teams    ht ON g.home_team_id = ht.team_id
LEFT JOIN teams    at ON g.away_team_id = at.team_id
`

// PlayerGames returns one player's box-score history newest-first.
func (s *Store) PlayerGames(ctx context.Context, f PropFilter) ([]PlayerRow, error) {
	conds := []string{completedGameSQL, `b.player_id = ?`}
	args := []interface{}{f.PlayerID}

	if f.OpponentID != 0 {
		conds = append(conds, `b.opponent_id = ?`)
		args = append(args, f.OpponentID)
	}
	if f.SeasonMin != 0 {
		conds = append(conds, `g.season >= ?`)
		args = append(args, f.SeasonMin)
	}
	if f.SeasonMax != 0 {
		conds = append(conds, `g.season <= ?`)
		args = append(args, f.SeasonMax)
	}

	q := playerJoinSQL + `WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY g.game_date DESC, b.id DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var rows []PlayerRow
	err := s.withRetry(ctx, "player_games", func() error {
		rows = rows[:0]
		return s.db.NewRaw(q, args...).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch player games: %w", err)
	}
	return rows, nil
}

const ranksSQL = `
SELECT
	tr.season, tr.week, tr.team_id,
	tr.rank_pass_yards_allowed, tr.rank_rush_yards_allowed,
	tr.rank_receiving_yards_allowed, tr.rank_points_allowed,
	tr.rank_total_yards_allowed
FROM team_rankings tr
WHERE tr.season = ? AND tr.week = ? AND tr.team_id IN (%s)
`

// DefenseRanks fetches ranking rows for the given keys, grouped by
// (season, week) to keep round trips bounded. Absent keys are simply
// missing from the returned map; the engine decides how to degrade.
func (s *Store) DefenseRanks(ctx context.Context, keys []RankKey) (map[RankKey]RankRow, error) {
	out := make(map[RankKey]RankRow, len(keys))

	type weekKey struct{ season, week int }
	groups := map[weekKey][]int{}
	for _, k := range keys {
		wk := weekKey{k.Season, k.Week}
		groups[wk] = append(groups[wk], k.TeamID)
	}

	for wk, teamIDs := range groups {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(teamIDs)), ", ")
		args := []interface{}{wk.season, wk.week}
		for _, id := range teamIDs {
			args = append(args, id)
		}
		q := fmt.Sprintf(ranksSQL, placeholders)

		var rows []RankRow
		err := s.withRetry(ctx, "defense_ranks", func() error {
			rows = rows[:0]
			return s.db.NewRaw(q, args...).Scan(ctx, &rows)
		})
		if err != nil {
			return nil, fmt.Errorf("fetch rankings season=%d week=%d: %w", wk.season, wk.week, err)
		}
		for _, r := range rows {
			out[RankKey{Season: r.Season, Week: r.Week, TeamID: r.TeamID}] = r
		}
	}
	return out, nil
}

// PrevGame returns the team's most recent finalized game strictly before
// the given kickoff, or nil when the team has no earlier game on record.
func (s *Store) PrevGame(ctx context.Context, teamID int, before time.Time) (*GameRow, error) {
	q := gamesJoinSQL +
		`WHERE ` + completedGameSQL +
		` AND (g.home_team_id = ? OR g.away_team_id = ?) AND g.game_date < ?` +
		` ORDER BY g.game_date DESC LIMIT 1`

	var row GameRow
	err := s.withRetry(ctx, "prev_game", func() error {
		return s.db.NewRaw(q, teamID, teamID, before).Scan(ctx, &row)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch previous game: %w", err)
	}
	return &row, nil
}
