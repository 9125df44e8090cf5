package engine

import (
	"fmt"
	"time"
)

// Response is the full query result: every surviving record plus the
// aggregate view and enough metadata to audit what narrowed the sample.
type Response struct {
	Summary        Summary      `json:"summary"`
	Days           []DaySummary `json:"days,omitempty"`
	Games          []RecordJSON `json:"games,omitempty"`
	Props          []RecordJSON `json:"props,omitempty"`
	FiltersApplied []string     `json:"filters_applied"`
	Notes          []string     `json:"notes,omitempty"`
	QueryTimeMs    int64        `json:"query_time_ms"`
}

// RecordJSON is the wire form of one settled record, newest first.
type RecordJSON struct {
	GameID   int64  `json:"game_id"`
	Date     string `json:"date"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
	Matchup  string `json:"matchup"`
	Team     string `json:"team,omitempty"`
	Opponent string `json:"opponent,omitempty"`
	Score    string `json:"score"`

	Spread float64 `json:"spread,omitempty"`
	Total  float64 `json:"total,omitempty"`

	Player    string  `json:"player,omitempty"`
	Position  string  `json:"position,omitempty"`
	StatValue float64 `json:"stat_value,omitempty"`
	Line      float64 `json:"line,omitempty"`

	Outcome string  `json:"outcome"`
	Profit  float64 `json:"profit"`
}

// Format assembles the response. elapsed is wall time for the whole
// request, including store round trips.
func Format(q Query, scored []Scored, labels, notes []string, days []DaySummary, elapsed time.Duration) Response {
	resp := Response{
		Summary:        Aggregate(scored),
		Days:           days,
		FiltersApplied: labels,
		Notes:          notes,
		QueryTimeMs:    elapsed.Milliseconds(),
	}

	recs := make([]RecordJSON, 0, len(scored))
	for _, sc := range scored {
		recs = append(recs, recordJSON(q, sc))
	}
	if q.Type == QueryProp {
		resp.Props = recs
	} else {
		resp.Games = recs
	}
	return resp
}

func recordJSON(q Query, sc Scored) RecordJSON {
	r := &sc.Record
	out := RecordJSON{
		GameID:   r.GameID,
		Date:     r.GameDate.Format("2006-01-02"),
		Season:   r.Season,
		Week:     r.Week,
		Matchup:  matchup(r),
		Team:     r.SubjectAbbr,
		Opponent: r.OpponentAbbr,
		Score:    fmt.Sprintf("%d-%d", r.SubjectScore, r.OpponentScore),
		Spread:   r.SubjectSpread(),
		Total:    r.TotalClose,
		Outcome:  sc.Outcome.String(),
		Profit:   round2(sc.Profit),
	}
	if q.Type == QueryProp {
		out.Player = r.PlayerName
		out.Position = r.Position
		out.StatValue = r.StatValue
		out.Line = q.Line
	}
	return out
}

// matchup renders from the subject's point of view: "@ KC" style when the
// subject travelled.
func matchup(r *Record) string {
	if r.SubjectHome {
		return fmt.Sprintf("%s vs %s", r.SubjectAbbr, r.OpponentAbbr)
	}
	return fmt.Sprintf("%s @ %s", r.SubjectAbbr, r.OpponentAbbr)
}
