package engine

// Request is the wire form of a query. Everything is optional except type;
// normalization decides what the chosen query type actually requires.
type Request struct {
	Type       string  `json:"type"`
	PlayerID   int     `json:"player_id,omitempty"`
	TeamID     int     `json:"team_id,omitempty"`
	RefereeID  string  `json:"referee_id,omitempty"`
	Stat       string  `json:"stat,omitempty"`
	BetType    string  `json:"bet_type,omitempty"`
	Side       string  `json:"side,omitempty"`
	Line       float64 `json:"line,omitempty"`
	GroupByDay bool    `json:"group_by_day,omitempty"`

	Filters RequestFilters `json:"filters"`
}

// RequestFilters is the sparse wire filter map. Absent keys and "any"
// both normalize to the unconstrained value.
type RequestFilters struct {
	TimePeriod     string      `json:"time_period,omitempty"`
	Location       string      `json:"location,omitempty"`
	IsDivision     string      `json:"is_division,omitempty"`
	IsConference   string      `json:"is_conference,omitempty"`
	IsPlayoff      string      `json:"is_playoff,omitempty"`
	IsFavorite     string      `json:"is_favorite,omitempty"`
	VsDefenseRank  string      `json:"vs_defense_rank,omitempty"`
	DefenseStat    string      `json:"defense_stat,omitempty"`
	LineMovement   string      `json:"line_movement,omitempty"`
	SpreadRange    *RangeJSON  `json:"spread_range,omitempty"`
	TotalRange     *RangeJSON  `json:"total_range,omitempty"`
	OpponentID     int         `json:"opponent_id,omitempty"`
	PrevGameResult string      `json:"prev_game_result,omitempty"`
	PrevGameMargin *RangeJSON  `json:"prev_game_margin,omitempty"`
	PrevGameRole   string      `json:"prev_game_role,omitempty"`
}

// RangeJSON is the wire form of an inclusive numeric range.
type RangeJSON struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}
