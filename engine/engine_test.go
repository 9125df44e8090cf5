package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thebettingsean/trends-api/store"
)

// fakeStore serves canned rows the way the real store does: newest first,
// narrowed only by identity, seasons and limit.
type fakeStore struct {
	games   []store.GameRow
	players []store.PlayerRow
	ranks   map[store.RankKey]store.RankRow
	prevFn  func(teamID int, before time.Time) (*store.GameRow, error)

	gotGames store.GamesFilter
	gotKeys  []store.RankKey
}

func (f *fakeStore) Games(_ context.Context, gf store.GamesFilter) ([]store.GameRow, error) {
	f.gotGames = gf
	var out []store.GameRow
	for _, g := range f.games {
		if gf.TeamID != 0 && g.HomeTeamID != gf.TeamID && g.AwayTeamID != gf.TeamID {
			continue
		}
		if gf.RefereeName != "" && g.RefereeName != gf.RefereeName {
			continue
		}
		if gf.SeasonMin != 0 && g.Season < gf.SeasonMin {
			continue
		}
		if gf.SeasonMax != 0 && g.Season > gf.SeasonMax {
			continue
		}
		out = append(out, g)
	}
	if gf.Limit > 0 && len(out) > gf.Limit {
		out = out[:gf.Limit]
	}
	return out, nil
}

func (f *fakeStore) PlayerGames(_ context.Context, pf store.PropFilter) ([]store.PlayerRow, error) {
	out := f.players
	if pf.Limit > 0 && len(out) > pf.Limit {
		out = out[:pf.Limit]
	}
	return out, nil
}

func (f *fakeStore) DefenseRanks(_ context.Context, keys []store.RankKey) (map[store.RankKey]store.RankRow, error) {
	f.gotKeys = keys
	out := map[store.RankKey]store.RankRow{}
	for _, k := range keys {
		if r, ok := f.ranks[k]; ok {
			out[k] = r
		}
	}
	return out, nil
}

func (f *fakeStore) PrevGame(_ context.Context, teamID int, before time.Time) (*store.GameRow, error) {
	if f.prevFn == nil {
		return nil, nil
	}
	return f.prevFn(teamID, before)
}

func newTestEngine(st store.Querier, maxRows int) *Engine {
	e := New(st, zap.NewNop(), Options{
		Defaults:   testDefaults,
		LeagueSize: 32,
		MaxRows:    maxRows,
		Timeout:    5 * time.Second,
		DayLoc:     time.UTC,
	})
	e.now = func() time.Time { return testNow }
	return e
}

func game(id int64, season, week, home, away, hs, as int, spread float64, division bool) store.GameRow {
	return store.GameRow{
		GameID:     id,
		Season:     season,
		Week:       week,
		GameDate:   time.Date(season, time.September, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, week*7),
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  hs,
		AwayScore:  as,
		SpreadOpen: spread,
		SpreadClose: spread,
		TotalOpen:  44,
		TotalClose: 44.5,
		IsDivision: division,
		HomeAbbr:   "HOM",
		AwayAbbr:   "AWY",
	}
}

func TestExecuteTeamSeasonDivision(t *testing.T) {
	st := &fakeStore{games: []store.GameRow{
		game(6, 2026, 10, 9, 5, 27, 20, -3.5, true), // covers
		game(5, 2026, 9, 7, 9, 20, 24, 3, true),     // away favorite covers
		game(4, 2026, 8, 9, 3, 24, 20, -4, true),    // lands on the number
		game(3, 2026, 6, 9, 2, 24, 10, -7, false),   // non-division, filtered
		game(2, 2025, 12, 9, 5, 17, 20, -3, true),   // last season, out of window
	}}
	e := newTestEngine(st, 100)

	resp, err := e.Execute(context.Background(), Request{
		Type:    "team",
		TeamID:  9,
		BetType: "spread",
		Filters: RequestFilters{TimePeriod: "season", IsDivision: "division"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Summary.Record)
	assert.Equal(t, 2, resp.Summary.Wins)
	assert.Equal(t, 0, resp.Summary.Losses)
	assert.Equal(t, 1, resp.Summary.Pushes)
	assert.Equal(t, 100.0, resp.Summary.WinRate)
	assert.Contains(t, resp.FiltersApplied, "season_2026")
	assert.Contains(t, resp.FiltersApplied, "division")
	require.Len(t, resp.Games, 3)
	assert.Equal(t, "win", resp.Games[0].Outcome)
	assert.Equal(t, "push", resp.Games[2].Outcome)

	// the away game is graded against the flipped spread
	assert.Equal(t, -3.0, resp.Games[1].Spread)
	assert.Equal(t, "AWY @ HOM", resp.Games[1].Matchup)
}

// A last-N window fixes the sample before row filters run: "last 4,
// division only" is the division subset of the last 4 games, not the
// last 4 division games.
func TestExecuteWindowBeforeFilters(t *testing.T) {
	var games []store.GameRow
	for i := 0; i < 10; i++ {
		division := i == 1 || i == 3 || i == 7
		games = append(games, game(int64(100-i), 2026, 12-i, 9, 5, 24, 20, -3, division))
	}
	st := &fakeStore{games: games}
	e := newTestEngine(st, 100)

	resp, err := e.Execute(context.Background(), Request{
		Type:    "team",
		TeamID:  9,
		BetType: "spread",
		Filters: RequestFilters{TimePeriod: "L4", IsDivision: "division"},
	})
	require.NoError(t, err)

	// only the SQL limit was pushed down, not the division predicate
	assert.Equal(t, 4, st.gotGames.Limit)
	assert.Zero(t, st.gotGames.SeasonMin)
	assert.Equal(t, 2, resp.Summary.Record)
	assert.Contains(t, resp.FiltersApplied, "last_4_games")
}

// Rank filters read the opponent's ranking from the week before kickoff;
// week-one games and missing rows are excluded, never approximated with
// the current week.
func TestExecuteRankLookupLagsOneWeek(t *testing.T) {
	st := &fakeStore{
		games: []store.GameRow{
			game(2, 2026, 8, 9, 12, 27, 17, -3, false),
			game(1, 2026, 1, 9, 13, 27, 17, -3, false),
		},
		ranks: map[store.RankKey]store.RankRow{
			{Season: 2026, Week: 7, TeamID: 12}: {Season: 2026, Week: 7, TeamID: 12, TotalYardsAllowed: 3},
		},
	}
	e := newTestEngine(st, 100)

	resp, err := e.Execute(context.Background(), Request{
		Type:    "team",
		TeamID:  9,
		BetType: "spread",
		Filters: RequestFilters{TimePeriod: "season", VsDefenseRank: "top_5"},
	})
	require.NoError(t, err)

	require.Len(t, st.gotKeys, 1)
	assert.Equal(t, store.RankKey{Season: 2026, Week: 7, TeamID: 12}, st.gotKeys[0])

	assert.Equal(t, 1, resp.Summary.Record)
	require.Len(t, resp.Games, 1)
	assert.Equal(t, int64(2), resp.Games[0].GameID)
	require.Len(t, resp.Notes, 1)
	assert.Contains(t, resp.Notes[0], "defensive ranking")
}

func TestExecutePrevGameFilter(t *testing.T) {
	prevWin := game(50, 2026, 7, 9, 4, 30, 10, -3, false)
	st := &fakeStore{
		games: []store.GameRow{
			game(2, 2026, 8, 9, 12, 27, 17, -3, false),
			game(1, 2026, 1, 9, 13, 27, 17, -3, false),
		},
		prevFn: func(teamID int, before time.Time) (*store.GameRow, error) {
			if before.After(prevWin.GameDate) {
				return &prevWin, nil
			}
			return nil, nil // no earlier game on record
		},
	}
	e := newTestEngine(st, 100)

	resp, err := e.Execute(context.Background(), Request{
		Type:    "team",
		TeamID:  9,
		BetType: "spread",
		Filters: RequestFilters{TimePeriod: "season", PrevGameResult: "won"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.Record)
	require.Len(t, resp.Notes, 1)
	assert.Contains(t, resp.Notes[0], "no earlier game")
}

func TestExecuteRowCap(t *testing.T) {
	st := &fakeStore{games: []store.GameRow{
		game(3, 2026, 3, 9, 5, 24, 20, -3, false),
		game(2, 2026, 2, 9, 5, 24, 20, -3, false),
		game(1, 2026, 1, 9, 5, 24, 20, -3, false),
	}}
	e := newTestEngine(st, 2)

	_, err := e.Execute(context.Background(), Request{
		Type:    "team",
		TeamID:  9,
		BetType: "spread",
		Filters: RequestFilters{TimePeriod: "season"},
	})
	var lErr *ExecutionLimitError
	require.ErrorAs(t, err, &lErr)
	assert.Equal(t, "rows", lErr.Kind)
	assert.Equal(t, 2, lErr.Limit)

	// a last-N window bounds the fetch itself, so it never overflows
	_, err = e.Execute(context.Background(), Request{
		Type:    "team",
		TeamID:  9,
		BetType: "spread",
		Filters: RequestFilters{TimePeriod: "L3"},
	})
	assert.NoError(t, err)
}

func TestExecuteFavoriteBinding(t *testing.T) {
	st := &fakeStore{games: []store.GameRow{
		game(3, 2026, 3, 9, 5, 24, 20, -3, false), // home favorite covers
		game(2, 2026, 2, 7, 8, 20, 24, 3, false),  // away favorite covers
		game(1, 2026, 1, 6, 4, 24, 20, 0, false),  // pick'em, unbindable
	}}
	e := newTestEngine(st, 100)

	resp, err := e.Execute(context.Background(), Request{
		Type:    "trend",
		BetType: "spread",
		Side:    "favorite",
		Filters: RequestFilters{TimePeriod: "season"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.Record)
	assert.Equal(t, 2, resp.Summary.Wins)
	require.Len(t, resp.Notes, 1)
	assert.Contains(t, resp.Notes[0], "pick'em")
}

func TestExecutePropQuery(t *testing.T) {
	box := func(id int64, week, rush int) store.PlayerRow {
		return store.PlayerRow{
			GameRow: game(id, 2026, week, 9, 5, 24, 20, -3, false),
			BoxID:   id, PlayerID: 4881, PlayerName: "J. Carter", Position: "RB",
			TeamID: 9, OpponentID: 5, IsHome: true,
			RushYards: rush,
		}
	}
	st := &fakeStore{players: []store.PlayerRow{
		box(3, 8, 112),
		box(2, 7, 85),
		box(1, 6, 40),
	}}
	e := newTestEngine(st, 100)

	resp, err := e.Execute(context.Background(), Request{
		Type:     "prop",
		PlayerID: 4881,
		Stat:     "rush_yards",
		Line:     85,
		Side:     "over",
		Filters:  RequestFilters{TimePeriod: "season"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.Wins)
	assert.Equal(t, 1, resp.Summary.Losses)
	assert.Equal(t, 1, resp.Summary.Pushes)
	require.Len(t, resp.Props, 3)
	assert.Equal(t, "J. Carter", resp.Props[0].Player)
	assert.Equal(t, 112.0, resp.Props[0].StatValue)
	assert.Equal(t, 85.0, resp.Props[0].Line)
}
