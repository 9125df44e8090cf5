package engine

import (
	"fmt"
	"strings"
	"time"
)

// Defaults enumerates every filter default and the league shape the
// normalizer needs. Populated once from config at startup.
type Defaults struct {
	TimePeriod       string
	SeasonStartMonth time.Month
	LeagueSize       int
}

// Normalize validates a raw request against the query type's requirements
// and produces a Query with every dimension explicitly set. Pure: the
// clock is a parameter so season-relative periods are deterministic.
func Normalize(req Request, d Defaults, now time.Time) (Query, error) {
	var q Query

	switch req.Type {
	case "prop":
		q.Type = QueryProp
	case "team":
		q.Type = QueryTeam
	case "referee":
		q.Type = QueryReferee
	case "trend":
		q.Type = QueryTrend
	default:
		return q, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown query type %q", req.Type)}
	}

	if err := normalizeSubject(&q, req); err != nil {
		return q, err
	}
	if err := normalizeFilters(&q, req.Filters, d, now); err != nil {
		return q, err
	}

	q.GroupByDay = req.GroupByDay
	return q, nil
}

// normalizeSubject handles the query-type-specific required fields:
// who the query is about and what market it settles against.
func normalizeSubject(q *Query, req Request) error {
	if q.Type == QueryProp {
		if req.PlayerID <= 0 {
			return &ValidationError{Field: "player_id", Reason: "required for prop queries"}
		}
		q.PlayerID = req.PlayerID

		stat := StatCode(req.Stat)
		if _, ok := propStats[stat]; !ok {
			return &ValidationError{Field: "stat", Reason: fmt.Sprintf("unknown prop stat %q", req.Stat)}
		}
		q.Stat = stat

		if req.Line <= 0 {
			return &ValidationError{Field: "line", Reason: "a positive line is required for prop queries"}
		}
		q.Line = req.Line

		switch req.Side {
		case "", "over":
			q.Side = SideOver
		case "under":
			q.Side = SideUnder
		default:
			return &ValidationError{Field: "side", Reason: fmt.Sprintf("%q is not valid for prop queries", req.Side)}
		}

		if req.BetType != "" {
			return &ValidationError{Field: "bet_type", Reason: "not valid for prop queries"}
		}
		return nil
	}

	// team / referee / trend all settle a game market.
	if req.Stat != "" {
		return &ValidationError{Field: "stat", Reason: "prop stats are only valid for prop queries"}
	}

	switch req.BetType {
	case "spread":
		q.Bet = BetSpread
	case "total":
		q.Bet = BetTotal
	case "moneyline":
		q.Bet = BetMoneyline
	case "":
		return &ValidationError{Field: "bet_type", Reason: "required for team, referee and trend queries"}
	default:
		return &ValidationError{Field: "bet_type", Reason: fmt.Sprintf("unknown bet type %q", req.BetType)}
	}

	side, err := parseSide(req.Side, q.Bet)
	if err != nil {
		return err
	}
	q.Side = side

	switch q.Type {
	case QueryTeam:
		if req.TeamID <= 0 && q.Side == SideNone {
			return &ValidationError{Field: "team_id", Reason: "team queries need a team_id or a side"}
		}
		q.TeamID = req.TeamID
	case QueryReferee:
		q.RefereeName = strings.TrimSpace(req.RefereeID)
		if q.Side == SideNone {
			return &ValidationError{Field: "side", Reason: "required for referee queries"}
		}
	case QueryTrend:
		if q.Side == SideNone {
			return &ValidationError{Field: "side", Reason: "required for trend queries"}
		}
	}
	return nil
}

// parseSide validates side against the bet type. Totals take over/under;
// spread and moneyline take home/away/favorite/underdog.
func parseSide(s string, bet BetType) (Side, error) {
	if s == "" {
		return SideNone, nil
	}

	var side Side
	switch s {
	case "home":
		side = SideHome
	case "away":
		side = SideAway
	case "over":
		side = SideOver
	case "under":
		side = SideUnder
	case "favorite":
		side = SideFavorite
	case "underdog":
		side = SideUnderdog
	default:
		return SideNone, &ValidationError{Field: "side", Reason: fmt.Sprintf("unknown side %q", s)}
	}

	overUnder := side == SideOver || side == SideUnder
	if bet == BetTotal && !overUnder {
		return SideNone, &ValidationError{Field: "side", Reason: "total bets take side over or under"}
	}
	if bet != BetTotal && overUnder {
		return SideNone, &ValidationError{Field: "side", Reason: "over/under is only valid for total bets"}
	}
	return side, nil
}

func normalizeFilters(q *Query, f RequestFilters, d Defaults, now time.Time) error {
	period := f.TimePeriod
	if period == "" {
		period = d.TimePeriod
	}
	window, err := parseTimePeriod(period, now, d.SeasonStartMonth)
	if err != nil {
		return &ValidationError{Field: "time_period", Reason: err.Error()}
	}
	q.Window = window

	switch f.Location {
	case "", "any":
		q.Location = LocationAny
	case "home":
		q.Location = LocationHome
	case "away":
		q.Location = LocationAway
	default:
		return &ValidationError{Field: "location", Reason: fmt.Sprintf("unknown location %q", f.Location)}
	}

	if q.Division, err = parseBoolFilter(f.IsDivision, "division", "non_division"); err != nil {
		return &ValidationError{Field: "is_division", Reason: err.Error()}
	}
	if q.Conference, err = parseBoolFilter(f.IsConference, "conference", "non_conference"); err != nil {
		return &ValidationError{Field: "is_conference", Reason: err.Error()}
	}
	if q.Playoff, err = parseBoolFilter(f.IsPlayoff, "playoff", "regular"); err != nil {
		return &ValidationError{Field: "is_playoff", Reason: err.Error()}
	}

	switch f.IsFavorite {
	case "", "any":
		q.Favorite = FavoriteAny
	case "favorite":
		q.Favorite = FavoriteOnly
	case "underdog":
		q.Favorite = UnderdogOnly
	default:
		return &ValidationError{Field: "is_favorite", Reason: fmt.Sprintf("unknown value %q", f.IsFavorite)}
	}

	if q.DefenseRank, err = parseRankBucket(f.VsDefenseRank); err != nil {
		return &ValidationError{Field: "vs_defense_rank", Reason: err.Error()}
	}
	if q.DefenseBy, err = parseDefenseStat(f.DefenseStat); err != nil {
		return &ValidationError{Field: "defense_stat", Reason: err.Error()}
	}
	if q.DefenseBy == DefenseStatAuto {
		if q.Type == QueryProp {
			q.DefenseBy = propStats[q.Stat]
		} else {
			q.DefenseBy = DefenseTotalYards
		}
	}

	switch f.LineMovement {
	case "", "any":
		q.LineMove = LineMoveAny
	case "positive":
		q.LineMove = LineMoveUp
	case "negative":
		q.LineMove = LineMoveDown
	default:
		return &ValidationError{Field: "line_movement", Reason: fmt.Sprintf("unknown value %q", f.LineMovement)}
	}

	if q.SpreadRange, err = parseRange(f.SpreadRange); err != nil {
		return &ValidationError{Field: "spread_range", Reason: err.Error()}
	}
	if q.TotalRange, err = parseRange(f.TotalRange); err != nil {
		return &ValidationError{Field: "total_range", Reason: err.Error()}
	}

	q.OpponentID = f.OpponentID
	if f.OpponentID != 0 && q.Type != QueryProp && q.Type != QueryTeam {
		return &ValidationError{Field: "opponent_id", Reason: "only valid for prop and team queries"}
	}
	if f.OpponentID != 0 && q.Type == QueryTeam && q.TeamID == 0 {
		return &ValidationError{Field: "opponent_id", Reason: "head-to-head needs a team_id"}
	}

	switch f.PrevGameResult {
	case "", "any":
		q.PrevGame.Result = PrevAny
	case "won":
		q.PrevGame.Result = PrevWon
	case "lost":
		q.PrevGame.Result = PrevLost
	default:
		return &ValidationError{Field: "prev_game_result", Reason: fmt.Sprintf("unknown value %q", f.PrevGameResult)}
	}
	if q.PrevGame.Margin, err = parseRange(f.PrevGameMargin); err != nil {
		return &ValidationError{Field: "prev_game_margin", Reason: err.Error()}
	}
	switch f.PrevGameRole {
	case "", "subject":
		q.PrevGame.Role = RoleSubject
	case "opponent":
		q.PrevGame.Role = RoleOpponent
	default:
		return &ValidationError{Field: "prev_game_role", Reason: fmt.Sprintf("unknown role %q", f.PrevGameRole)}
	}
	if q.PrevGame.Role == RoleOpponent && !q.PrevGame.IsSet() {
		return &ValidationError{Field: "prev_game_role", Reason: "set without a prev_game_result or prev_game_margin"}
	}

	return nil
}

func parseBoolFilter(s, yes, no string) (BoolFilter, error) {
	switch s {
	case "", "any":
		return BoolAny, nil
	case yes:
		return BoolYes, nil
	case no:
		return BoolNo, nil
	default:
		return BoolAny, fmt.Errorf("unknown value %q", s)
	}
}

func parseRankBucket(s string) (RankBucket, error) {
	switch s {
	case "", "any":
		return RankAny, nil
	case "top_5":
		return RankTop5, nil
	case "top_10":
		return RankTop10, nil
	case "top_15":
		return RankTop15, nil
	case "bottom_5":
		return RankBottom5, nil
	case "bottom_10":
		return RankBottom10, nil
	case "bottom_15":
		return RankBottom15, nil
	default:
		return RankAny, fmt.Errorf("unknown rank bucket %q", s)
	}
}

func parseDefenseStat(s string) (DefenseStat, error) {
	switch s {
	case "":
		return DefenseStatAuto, nil
	case "pass":
		return DefensePass, nil
	case "rush":
		return DefenseRush, nil
	case "receiving":
		return DefenseReceiving, nil
	case "points":
		return DefensePoints, nil
	case "total_yards":
		return DefenseTotalYards, nil
	default:
		return DefenseStatAuto, fmt.Errorf("unknown defense stat %q", s)
	}
}

func parseRange(r *RangeJSON) (Range, error) {
	if r == nil {
		return Range{}, nil
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return Range{}, fmt.Errorf("min %v is greater than max %v", *r.Min, *r.Max)
	}
	return Range{Min: r.Min, Max: r.Max}, nil
}
