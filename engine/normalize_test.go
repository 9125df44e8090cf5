package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{
	TimePeriod:       "season",
	SeasonStartMonth: time.September,
	LeagueSize:       32,
}

var testNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeTeamQuery(t *testing.T) {
	q, err := Normalize(Request{
		Type:    "team",
		TeamID:  9,
		BetType: "spread",
		Filters: RequestFilters{IsDivision: "division"},
	}, testDefaults, testNow)
	require.NoError(t, err)

	assert.Equal(t, QueryTeam, q.Type)
	assert.Equal(t, 9, q.TeamID)
	assert.Equal(t, BetSpread, q.Bet)
	assert.Equal(t, BoolYes, q.Division)
	assert.Equal(t, TimeWindow{Kind: TimeSeasonExact, Season: 2026}, q.Window)
}

func TestNormalizePropQuery(t *testing.T) {
	q, err := Normalize(Request{
		Type:     "prop",
		PlayerID: 4881,
		Stat:     "rush_yards",
		Line:     85.5,
		Side:     "over",
	}, testDefaults, testNow)
	require.NoError(t, err)

	assert.Equal(t, QueryProp, q.Type)
	assert.Equal(t, StatRushYards, q.Stat)
	assert.Equal(t, SideOver, q.Side)
	// rank lookups for rushing props read the rush defense by default
	assert.Equal(t, DefenseRush, q.DefenseBy)
}

func TestNormalizeRejections(t *testing.T) {
	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{"unknown type", Request{Type: "parlay"}, "type"},
		{"prop without player", Request{Type: "prop", Stat: "pass_yards", Line: 250}, "player_id"},
		{"prop unknown stat", Request{Type: "prop", PlayerID: 1, Stat: "sacks", Line: 1.5}, "stat"},
		{"prop missing line", Request{Type: "prop", PlayerID: 1, Stat: "pass_yards"}, "line"},
		{"team missing bet", Request{Type: "team", TeamID: 9}, "bet_type"},
		{"total with team side", Request{Type: "trend", BetType: "total", Side: "home"}, "side"},
		{"spread with over", Request{Type: "trend", BetType: "spread", Side: "over"}, "side"},
		{"trend missing side", Request{Type: "trend", BetType: "spread"}, "side"},
		{
			"bad time period",
			Request{Type: "team", TeamID: 9, BetType: "spread", Filters: RequestFilters{TimePeriod: "L0"}},
			"time_period",
		},
		{
			"bad rank bucket",
			Request{Type: "team", TeamID: 9, BetType: "spread", Filters: RequestFilters{VsDefenseRank: "top_3"}},
			"vs_defense_rank",
		},
		{
			"inverted range",
			Request{Type: "team", TeamID: 9, BetType: "spread",
				Filters: RequestFilters{SpreadRange: &RangeJSON{Min: f64(3), Max: f64(-3)}}},
			"spread_range",
		},
		{
			"opponent on referee query",
			Request{Type: "referee", RefereeID: "Carl Cheffers", BetType: "spread", Side: "home",
				Filters: RequestFilters{OpponentID: 5}},
			"opponent_id",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.req, testDefaults, testNow)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestParseTimePeriod(t *testing.T) {
	// January belongs to the season that started the previous September.
	january := time.Date(2027, time.January, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		in   string
		now  time.Time
		want TimeWindow
	}{
		{"all", testNow, TimeWindow{Kind: TimeAll}},
		{"season", testNow, TimeWindow{Kind: TimeSeasonExact, Season: 2026}},
		{"season", january, TimeWindow{Kind: TimeSeasonExact, Season: 2026}},
		{"last_season", testNow, TimeWindow{Kind: TimeSeasonExact, Season: 2025}},
		{"L2years", testNow, TimeWindow{Kind: TimeSeasonSince, Season: 2025}},
		{"L3years", testNow, TimeWindow{Kind: TimeSeasonSince, Season: 2024}},
		{"since_2020", testNow, TimeWindow{Kind: TimeSeasonSince, Season: 2020}},
		{"L10", testNow, TimeWindow{Kind: TimeLastN, N: 10}},
		{"L1", testNow, TimeWindow{Kind: TimeLastN, N: 1}},
	}
	for _, tc := range cases {
		got, err := parseTimePeriod(tc.in, tc.now, time.September)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"L0", "L101", "Labc", "since_1800", "fortnight"} {
		_, err := parseTimePeriod(bad, testNow, time.September)
		assert.Error(t, err, bad)
	}
}

func TestRankBounds(t *testing.T) {
	lo, hi := rankBounds(RankTop5, 32)
	assert.Equal(t, [2]int{1, 5}, [2]int{lo, hi})

	lo, hi = rankBounds(RankBottom10, 32)
	assert.Equal(t, [2]int{23, 32}, [2]int{lo, hi})

	lo, hi = rankBounds(RankBottom5, 32)
	assert.Equal(t, [2]int{28, 32}, [2]int{lo, hi})
}

func f64(v float64) *float64 { return &v }
