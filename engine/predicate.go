package engine

import (
	"fmt"

	"github.com/thebettingsean/trends-api/store"
)

// A predicate is one compiled row-scoped filter. The label feeds the
// response's filters_applied list so callers can see exactly what
// narrowed their sample.
type predicate struct {
	label string
	fn    func(*Record) bool
}

// Plan is a compiled query: the fetch bounds that go to SQL and the
// ordered predicates that run in memory after the time window is fixed.
// Splitting the two is what makes "last 10 games, division only" mean
// the division subset of the last 10 rather than the last 10 division
// games.
type Plan struct {
	Query Query

	// preds need only the record itself; annotated need a store lookup
	// (rankings, prior games) resolved first, so they run on the records
	// that survive the cheap pass.
	preds     []predicate
	annotated []predicate
	NeedsRank bool
	NeedsPrev bool
}

// Compile turns a normalized query into an executable plan.
func Compile(q Query, leagueSize int) *Plan {
	p := &Plan{Query: q}

	switch q.Location {
	case LocationHome:
		p.add("location=home", func(r *Record) bool { return r.SubjectHome })
	case LocationAway:
		p.add("location=away", func(r *Record) bool { return !r.SubjectHome })
	}

	addBool := func(f BoolFilter, name string, get func(*Record) bool) {
		switch f {
		case BoolYes:
			p.add(name, func(r *Record) bool { return get(r) })
		case BoolNo:
			p.add("non_"+name, func(r *Record) bool { return !get(r) })
		}
	}
	addBool(q.Division, "division", func(r *Record) bool { return r.IsDivision })
	addBool(q.Conference, "conference", func(r *Record) bool { return r.IsConference })
	addBool(q.Playoff, "playoff", func(r *Record) bool { return r.IsPlayoff })

	// A pick'em is neither favorite nor underdog, so it fails both.
	switch q.Favorite {
	case FavoriteOnly:
		p.add("favorite", func(r *Record) bool { return r.SubjectSpread() < 0 })
	case UnderdogOnly:
		p.add("underdog", func(r *Record) bool { return r.SubjectSpread() > 0 })
	}

	switch q.LineMove {
	case LineMoveUp:
		p.add("line_movement=positive", func(r *Record) bool { return lineDelta(q, r) > 0 })
	case LineMoveDown:
		p.add("line_movement=negative", func(r *Record) bool { return lineDelta(q, r) < 0 })
	}

	if q.SpreadRange.IsSet() {
		rng := q.SpreadRange
		p.add(rangeLabel("spread", rng), func(r *Record) bool { return rng.Contains(r.SubjectSpread()) })
	}
	if q.TotalRange.IsSet() {
		rng := q.TotalRange
		p.add(rangeLabel("total", rng), func(r *Record) bool { return rng.Contains(r.TotalClose) })
	}

	if q.DefenseRank != RankAny {
		lo, hi := rankBounds(q.DefenseRank, leagueSize)
		p.NeedsRank = true
		p.addAnnotated(fmt.Sprintf("vs_defense_rank=[%d,%d]", lo, hi), func(r *Record) bool {
			return r.OppRank >= lo && r.OppRank <= hi
		})
	}

	if q.PrevGame.IsSet() {
		p.NeedsPrev = true
		pg := q.PrevGame
		label := "prev_game"
		if pg.Role == RoleOpponent {
			label = "opponent_prev_game"
		}
		p.addAnnotated(label, func(r *Record) bool {
			if !r.PrevKnown {
				return false
			}
			switch pg.Result {
			case PrevWon:
				if r.PrevMargin <= 0 {
					return false
				}
			case PrevLost:
				if r.PrevMargin >= 0 {
					return false
				}
			}
			return pg.Margin.Contains(r.PrevMargin)
		})
	}

	return p
}

func (p *Plan) add(label string, fn func(*Record) bool) {
	p.preds = append(p.preds, predicate{label: label, fn: fn})
}

func (p *Plan) addAnnotated(label string, fn func(*Record) bool) {
	p.annotated = append(p.annotated, predicate{label: label, fn: fn})
}

// Apply runs the cheap predicates, preserving newest-first ordering.
func (p *Plan) Apply(recs []Record) []Record {
	return filter(recs, p.preds)
}

// ApplyAnnotated runs the lookup-backed predicates. Callers must have
// resolved ranks and prior games on the records first.
func (p *Plan) ApplyAnnotated(recs []Record) []Record {
	return filter(recs, p.annotated)
}

func filter(recs []Record, preds []predicate) []Record {
	if len(preds) == 0 {
		return recs
	}
	out := recs[:0]
	for i := range recs {
		keep := true
		for _, pred := range preds {
			if !pred.fn(&recs[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, recs[i])
		}
	}
	return out
}

// Labels lists the active filters for the response, window first.
func (p *Plan) Labels() []string {
	out := make([]string, 0, len(p.preds)+len(p.annotated)+1)
	out = append(out, windowLabel(p.Query.Window))
	for _, pred := range p.preds {
		out = append(out, pred.label)
	}
	for _, pred := range p.annotated {
		out = append(out, pred.label)
	}
	return out
}

// GamesFilter derives the SQL-side fetch bounds for a game query: subject
// identity, calendar bounds, and for a last-N window the LIMIT itself.
// maxRows+1 is used otherwise so the engine can detect an overflow.
func (p *Plan) GamesFilter(maxRows int) store.GamesFilter {
	q := p.Query
	f := store.GamesFilter{
		TeamID:      q.TeamID,
		OpponentID:  q.OpponentID,
		RefereeName: q.RefereeName,
	}
	if q.Type == QueryReferee && q.RefereeName == "" {
		f.RequireReferee = true
	}
	applyWindow(&f.SeasonMin, &f.SeasonMax, &f.Limit, q.Window, maxRows)
	return f
}

// PropFilter derives the SQL-side fetch bounds for a prop query.
func (p *Plan) PropFilter(maxRows int) store.PropFilter {
	q := p.Query
	f := store.PropFilter{
		PlayerID:   q.PlayerID,
		OpponentID: q.OpponentID,
	}
	applyWindow(&f.SeasonMin, &f.SeasonMax, &f.Limit, q.Window, maxRows)
	return f
}

func applyWindow(seasonMin, seasonMax, limit *int, w TimeWindow, maxRows int) {
	switch w.Kind {
	case TimeLastN:
		*limit = w.N
	case TimeSeasonExact:
		*seasonMin, *seasonMax = w.Season, w.Season
		*limit = maxRows + 1
	case TimeSeasonSince:
		*seasonMin = w.Season
		*limit = maxRows + 1
	default:
		*limit = maxRows + 1
	}
}

// lineDelta is close minus open for the line the query settles against.
// Spread and moneyline are read subject-perspective; props move with the
// game total.
func lineDelta(q Query, r *Record) float64 {
	switch q.Bet {
	case BetSpread:
		return r.SubjectSpread() - r.SubjectSpreadOpen()
	case BetMoneyline:
		return float64(r.SubjectMLClose - r.SubjectMLOpen)
	default:
		return r.TotalClose - r.TotalOpen
	}
}

func rangeLabel(name string, r Range) string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%s_range=[%v,%v]", name, *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf("%s_range=[%v,]", name, *r.Min)
	default:
		return fmt.Sprintf("%s_range=[,%v]", name, *r.Max)
	}
}

func windowLabel(w TimeWindow) string {
	switch w.Kind {
	case TimeLastN:
		return fmt.Sprintf("last_%d_games", w.N)
	case TimeSeasonExact:
		return fmt.Sprintf("season_%d", w.Season)
	case TimeSeasonSince:
		return fmt.Sprintf("since_%d", w.Season)
	default:
		return "all_time"
	}
}
