package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thebettingsean/trends-api/store"
)

// Options bundles the engine's operating limits and defaults.
type Options struct {
	Defaults   Defaults
	LeagueSize int
	MaxRows    int
	Timeout    time.Duration
	DayLoc     *time.Location
}

// Engine executes trend queries against a Querier. It owns the
// normalize, fetch, window, filter, classify, aggregate pipeline; the
// store owns nothing but identity and calendar bounds.
type Engine struct {
	store store.Querier
	log   *zap.Logger
	opts  Options
	now   func() time.Time
}

// New builds an Engine.
func New(st store.Querier, log *zap.Logger, opts Options) *Engine {
	if opts.DayLoc == nil {
		opts.DayLoc = time.UTC
	}
	return &Engine{store: st, log: log, opts: opts, now: time.Now}
}

// Execute runs one query end to end.
func (e *Engine) Execute(ctx context.Context, req Request) (Response, error) {
	start := e.now()

	q, err := Normalize(req, e.opts.Defaults, start)
	if err != nil {
		return Response{}, err
	}
	plan := Compile(q, e.opts.LeagueSize)

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	var notes []string
	recs, n, err := e.fetch(ctx, plan)
	if err != nil {
		return Response{}, err
	}
	if n > 0 {
		notes = append(notes, fmt.Sprintf("%d pick'em games had no favorite and were excluded", n))
	}

	recs = plan.Apply(recs)

	if plan.NeedsRank {
		gaps, err := e.resolveRanks(ctx, q, recs)
		if err != nil {
			return Response{}, e.storeErr("rankings", err)
		}
		if gaps > 0 {
			notes = append(notes, fmt.Sprintf("%d games had no prior-week defensive ranking and were excluded", gaps))
		}
	}
	if plan.NeedsPrev {
		gaps, err := e.resolvePrev(ctx, q, recs)
		if err != nil {
			return Response{}, e.storeErr("previous games", err)
		}
		if gaps > 0 {
			notes = append(notes, fmt.Sprintf("%d games had no earlier game on record and were excluded", gaps))
		}
	}
	recs = plan.ApplyAnnotated(recs)

	scored, dropped := Classify(q, recs)
	if dropped > 0 {
		notes = append(notes, fmt.Sprintf("%d games had no closing line for this market and were excluded", dropped))
	}

	var days []DaySummary
	if q.GroupByDay {
		days = GroupByDay(scored, e.opts.DayLoc)
	}

	elapsed := e.now().Sub(start)
	resp := Format(q, scored, plan.Labels(), notes, days, elapsed)

	e.log.Info("query executed",
		zap.Int("type", int(q.Type)),
		zap.Int("records", resp.Summary.Record),
		zap.Int("wins", resp.Summary.Wins),
		zap.Int("losses", resp.Summary.Losses),
		zap.Duration("elapsed", elapsed))
	return resp, nil
}

// fetch pulls the raw window from the store and binds subjects. The only
// SQL-side narrowing is identity, calendar bounds and, for a last-N
// window, the LIMIT itself; everything else runs afterwards so that
// "last 10 games, division only" means the division subset of the last
// 10, not the last 10 division games.
func (e *Engine) fetch(ctx context.Context, plan *Plan) ([]Record, int, error) {
	q := plan.Query
	maxRows := e.opts.MaxRows

	if q.Type == QueryProp {
		rows, err := e.store.PlayerGames(ctx, plan.PropFilter(maxRows))
		if err != nil {
			return nil, 0, e.storeErr("player games", err)
		}
		if err := e.checkOverflow(q, len(rows)); err != nil {
			return nil, 0, err
		}
		return bindPlayerRecords(q, rows), 0, nil
	}

	rows, err := e.store.Games(ctx, plan.GamesFilter(maxRows))
	if err != nil {
		return nil, 0, e.storeErr("games", err)
	}
	if err := e.checkOverflow(q, len(rows)); err != nil {
		return nil, 0, err
	}
	recs, unbindable := bindGameRecords(q, rows)
	return recs, unbindable, nil
}

func (e *Engine) checkOverflow(q Query, n int) error {
	if q.Window.Kind != TimeLastN && n > e.opts.MaxRows {
		return &ExecutionLimitError{Kind: "rows", Limit: e.opts.MaxRows}
	}
	return nil
}

// resolveRanks annotates each record with the opponent's defensive rank
// from the week before kickoff. A week-one game or a missing ranking row
// leaves the rank at zero, which no bucket matches; stale current-week
// rows are never substituted.
func (e *Engine) resolveRanks(ctx context.Context, q Query, recs []Record) (gaps int, err error) {
	keys := make([]store.RankKey, 0, len(recs))
	for i := range recs {
		if recs[i].Week > 1 {
			keys = append(keys, store.RankKey{
				Season: recs[i].Season,
				Week:   recs[i].Week - 1,
				TeamID: recs[i].OpponentTeamID,
			})
		}
	}
	ranks, err := e.store.DefenseRanks(ctx, keys)
	if err != nil {
		return 0, err
	}
	for i := range recs {
		r := &recs[i]
		if r.Week <= 1 {
			gaps++
			continue
		}
		row, ok := ranks[store.RankKey{Season: r.Season, Week: r.Week - 1, TeamID: r.OpponentTeamID}]
		if !ok {
			gaps++
			continue
		}
		r.OppRank = rankMetric(row, q.DefenseBy)
	}
	return gaps, nil
}

func rankMetric(row store.RankRow, by DefenseStat) int {
	switch by {
	case DefensePass:
		return row.PassYardsAllowed
	case DefenseRush:
		return row.RushYardsAllowed
	case DefenseReceiving:
		return row.ReceivingYardsAllowed
	case DefensePoints:
		return row.PointsAllowed
	default:
		return row.TotalYardsAllowed
	}
}

// resolvePrev annotates each record with the bound party's previous game
// margin. The role decides whose history is read: the side being bet, or
// the team across from it.
func (e *Engine) resolvePrev(ctx context.Context, q Query, recs []Record) (gaps int, err error) {
	for i := range recs {
		r := &recs[i]
		teamID := r.SubjectTeamID
		if q.PrevGame.Role == RoleOpponent {
			teamID = r.OpponentTeamID
		}
		prev, err := e.store.PrevGame(ctx, teamID, r.GameDate)
		if err != nil {
			return gaps, err
		}
		if prev == nil {
			gaps++
			continue
		}
		r.PrevKnown = true
		if prev.HomeTeamID == teamID {
			r.PrevMargin = float64(prev.HomeScore - prev.AwayScore)
		} else {
			r.PrevMargin = float64(prev.AwayScore - prev.HomeScore)
		}
	}
	return gaps, nil
}

func (e *Engine) storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExecutionLimitError{Kind: "timeout"}
	}
	e.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return &StoreError{Op: op, Err: err}
}
