package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Every filter dimension is a closed tagged type whose zero value means
// "unconstrained". The stringly request vocabulary ("any", "L10",
// "top_5", ...) exists only at the HTTP boundary; misspelled filter
// values fail normalization instead of silently matching everything.

// QueryType discriminates the four query shapes.
type QueryType int

const (
	QueryProp QueryType = iota + 1
	QueryTeam
	QueryReferee
	QueryTrend
)

// BetType is the market being evaluated.
type BetType int

const (
	BetNone BetType = iota
	BetSpread
	BetTotal
	BetMoneyline
)

// Side is the side of the market being bet.
type Side int

const (
	SideNone Side = iota
	SideHome
	SideAway
	SideOver
	SideUnder
	SideFavorite
	SideUnderdog
)

// Location constrains where the subject played.
type Location int

const (
	LocationAny Location = iota
	LocationHome
	LocationAway
)

// BoolFilter is a three-state constraint on a game flag.
type BoolFilter int

const (
	BoolAny BoolFilter = iota
	BoolYes
	BoolNo
)

// FavoriteFilter constrains the subject's closing-line status. Derived
// from the sign of the subject-perspective spread, not a stored flag.
type FavoriteFilter int

const (
	FavoriteAny FavoriteFilter = iota
	FavoriteOnly
	UnderdogOnly
)

// RankBucket is an opponent-strength bucket with inclusive thresholds.
type RankBucket int

const (
	RankAny RankBucket = iota
	RankTop5
	RankTop10
	RankTop15
	RankBottom5
	RankBottom10
	RankBottom15
)

// DefenseStat selects which defensive metric a rank bucket reads.
type DefenseStat int

const (
	DefenseStatAuto DefenseStat = iota // resolved from the prop stat family, or total yards
	DefensePass
	DefenseRush
	DefenseReceiving
	DefensePoints
	DefenseTotalYards
)

// LineMove constrains the sign of (closing - opening) for the bet type's line.
type LineMove int

const (
	LineMoveAny LineMove = iota
	LineMoveUp
	LineMoveDown
)

// PrevResult constrains the subject's previous game result.
type PrevResult int

const (
	PrevAny PrevResult = iota
	PrevWon
	PrevLost
)

// Role names which party a subject-scoped filter binds to. The binding is
// always explicit; nothing is inferred from home/away position.
type Role int

const (
	RoleSubject Role = iota
	RoleOpponent
)

// TimeWindowKind tags the two mutually exclusive time-period classes.
type TimeWindowKind int

const (
	TimeAll         TimeWindowKind = iota
	TimeLastN                      // subject-scoped: most recent N games
	TimeSeasonExact                // row-scoped: season == Season
	TimeSeasonSince                // row-scoped: season >= Season
)

// TimeWindow is the compiled time-period constraint.
type TimeWindow struct {
	Kind   TimeWindowKind
	N      int
	Season int
}

// Range is an inclusive numeric range; nil ends are open.
type Range struct {
	Min *float64
	Max *float64
}

// IsSet reports whether either end is constrained.
func (r Range) IsSet() bool { return r.Min != nil || r.Max != nil }

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// StatCode identifies a prop stat. Combo stats are computed from the
// underlying counters at classification time.
type StatCode string

const (
	StatPassYards       StatCode = "pass_yards"
	StatPassTDs         StatCode = "pass_tds"
	StatPassAttempts    StatCode = "pass_attempts"
	StatPassCompletions StatCode = "pass_completions"
	StatInterceptions   StatCode = "interceptions"
	StatRushYards       StatCode = "rush_yards"
	StatRushTDs         StatCode = "rush_tds"
	StatRushAttempts    StatCode = "rush_attempts"
	StatRushLong        StatCode = "rush_long"
	StatReceivingYards  StatCode = "receiving_yards"
	StatReceptions      StatCode = "receptions"
	StatReceivingTDs    StatCode = "receiving_tds"
	StatReceivingLong   StatCode = "receiving_long"
	StatTargets         StatCode = "targets"
	StatFantasyPoints   StatCode = "fantasy_points"
	StatCompPlusRush    StatCode = "completions_plus_rush_yards"
)

var propStats = map[StatCode]DefenseStat{
	StatPassYards:       DefensePass,
	StatPassTDs:         DefensePass,
	StatPassAttempts:    DefensePass,
	StatPassCompletions: DefensePass,
	StatInterceptions:   DefensePass,
	StatRushYards:       DefenseRush,
	StatRushTDs:         DefenseRush,
	StatRushAttempts:    DefenseRush,
	StatRushLong:        DefenseRush,
	StatReceivingYards:  DefenseReceiving,
	StatReceptions:      DefenseReceiving,
	StatReceivingTDs:    DefenseReceiving,
	StatReceivingLong:   DefenseReceiving,
	StatTargets:         DefenseReceiving,
	StatFantasyPoints:   DefensePass,
	StatCompPlusRush:    DefensePass,
}

// PropStats lists the accepted prop stat codes.
func PropStats() []string {
	out := make([]string, 0, len(propStats))
	for s := range propStats {
		out = append(out, string(s))
	}
	return out
}

// Query is the fully-normalized form of a request: every dimension is
// explicitly set to a value or to its unconstrained zero value.
type Query struct {
	Type        QueryType
	PlayerID    int
	TeamID      int
	OpponentID  int
	RefereeName string
	Stat        StatCode
	Bet         BetType
	Side        Side
	Line        float64
	GroupByDay  bool

	Window      TimeWindow
	Location    Location
	Division    BoolFilter
	Conference  BoolFilter
	Playoff     BoolFilter
	Favorite    FavoriteFilter
	DefenseRank RankBucket
	DefenseBy   DefenseStat
	LineMove    LineMove
	SpreadRange Range
	TotalRange  Range
	PrevGame    PrevGameFilter
}

// PrevGameFilter is the subject-scoped prior-game constraint with its
// explicit role binding.
type PrevGameFilter struct {
	Result PrevResult
	Margin Range
	Role   Role
}

// IsSet reports whether any prior-game constraint is active.
func (p PrevGameFilter) IsSet() bool { return p.Result != PrevAny || p.Margin.IsSet() }

// parseTimePeriod turns the request vocabulary into a TimeWindow. now and
// startMonth anchor the season-relative periods: an NFL season is named
// for the year it starts in, so January games belong to the prior year's
// season.
func parseTimePeriod(s string, now time.Time, startMonth time.Month) (TimeWindow, error) {
	cur := seasonFor(now, startMonth)

	switch s {
	case "", "all":
		return TimeWindow{Kind: TimeAll}, nil
	case "season":
		return TimeWindow{Kind: TimeSeasonExact, Season: cur}, nil
	case "last_season":
		return TimeWindow{Kind: TimeSeasonExact, Season: cur - 1}, nil
	case "L2years":
		return TimeWindow{Kind: TimeSeasonSince, Season: cur - 1}, nil
	case "L3years":
		return TimeWindow{Kind: TimeSeasonSince, Season: cur - 2}, nil
	}

	if rest, ok := strings.CutPrefix(s, "since_"); ok {
		year, err := strconv.Atoi(rest)
		if err != nil || year < 1990 || year > cur {
			return TimeWindow{}, fmt.Errorf("bad since year %q", rest)
		}
		return TimeWindow{Kind: TimeSeasonSince, Season: year}, nil
	}

	if rest, ok := strings.CutPrefix(s, "L"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > 100 {
			return TimeWindow{}, fmt.Errorf("bad game count %q", rest)
		}
		return TimeWindow{Kind: TimeLastN, N: n}, nil
	}

	return TimeWindow{}, fmt.Errorf("unknown time period %q", s)
}

// seasonFor maps a timestamp to the season it belongs to.
func seasonFor(t time.Time, startMonth time.Month) int {
	if t.Month() >= startMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// rankBounds returns the inclusive [lo, hi] rank interval for a bucket in
// a league of the given size.
func rankBounds(b RankBucket, leagueSize int) (lo, hi int) {
	switch b {
	case RankTop5:
		return 1, 5
	case RankTop10:
		return 1, 10
	case RankTop15:
		return 1, 15
	case RankBottom5:
		return leagueSize - 4, leagueSize
	case RankBottom10:
		return leagueSize - 9, leagueSize
	case RankBottom15:
		return leagueSize - 14, leagueSize
	default:
		return 0, 0
	}
}
