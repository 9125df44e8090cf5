package engine

// Outcome is the settled result of one record against the queried market.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomePush
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomePush:
		return "push"
	}
	return "unknown"
}

// Scored pairs a record with its outcome and flat-stake profit in units.
// One unit is risked per settled record; a push returns the stake.
type Scored struct {
	Record  Record
	Outcome Outcome
	Profit  float64
}

// standardProfit is the win profit at -110 juice, the assumed price for
// spread and total bets.
const standardProfit = 100.0 / 110.0

// Classify settles every record against the query's market. Records with
// no line for that market (a closing spread or total of exactly zero)
// cannot be graded and are dropped, not pushed: a push is a settled bet,
// a missing line is absent data.
func Classify(q Query, recs []Record) (scored []Scored, dropped int) {
	scored = make([]Scored, 0, len(recs))
	for i := range recs {
		r := &recs[i]
		var (
			out Outcome
			ok  bool
		)
		switch {
		case q.Type == QueryProp:
			out, ok = classifyProp(q, r)
		case q.Bet == BetSpread:
			out, ok = classifySpread(r)
		case q.Bet == BetTotal:
			out, ok = classifyTotal(q.Side, r)
		case q.Bet == BetMoneyline:
			out, ok = classifyMoneyline(r), true
		}
		if !ok {
			dropped++
			continue
		}
		scored = append(scored, Scored{Record: recs[i], Outcome: out, Profit: profit(q, r, out)})
	}
	return scored, dropped
}

func classifyProp(q Query, r *Record) (Outcome, bool) {
	switch {
	case r.StatValue == q.Line:
		return OutcomePush, true
	case r.StatValue > q.Line:
		return overIs(q.Side == SideOver), true
	default:
		return overIs(q.Side == SideUnder), true
	}
}

// classifySpread grades the subject against its closing spread: the bet
// wins when the subject's margin beats the points it laid or took.
func classifySpread(r *Record) (Outcome, bool) {
	if r.SpreadClose == 0 {
		return 0, false
	}
	adjusted := r.Margin() + r.SubjectSpread()
	switch {
	case adjusted > 0:
		return OutcomeWin, true
	case adjusted < 0:
		return OutcomeLoss, true
	default:
		return OutcomePush, true
	}
}

func classifyTotal(side Side, r *Record) (Outcome, bool) {
	if r.TotalClose == 0 {
		return 0, false
	}
	points := float64(r.SubjectScore + r.OpponentScore)
	switch {
	case points == r.TotalClose:
		return OutcomePush, true
	case points > r.TotalClose:
		return overIs(side == SideOver), true
	default:
		return overIs(side == SideUnder), true
	}
}

// classifyMoneyline grades on the straight result; a tied game refunds.
func classifyMoneyline(r *Record) Outcome {
	switch m := r.Margin(); {
	case m > 0:
		return OutcomeWin
	case m < 0:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}

func overIs(won bool) Outcome {
	if won {
		return OutcomeWin
	}
	return OutcomeLoss
}

// profit is the per-record flat-stake return. Spread, total and prop bets
// pay at -110; moneyline pays at the subject's actual closing price,
// falling back to -110 when no price is on record.
func profit(q Query, r *Record, out Outcome) float64 {
	switch out {
	case OutcomeLoss:
		return -1
	case OutcomePush:
		return 0
	}
	if q.Bet != BetMoneyline {
		return standardProfit
	}
	odds := r.SubjectMLClose
	if odds == 0 {
		return standardProfit
	}
	if odds > 0 {
		return float64(odds) / 100
	}
	return 100 / float64(-odds)
}
