package engine

import (
	"math"
	"sort"
	"time"
)

// Summary is the aggregate line for a set of scored records. Rates are
// percentages rounded to one decimal; pushes never count against the
// win rate.
type Summary struct {
	Record      int     `json:"record"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Pushes      int     `json:"pushes"`
	WinRate     float64 `json:"win_rate"`
	UnitsRisked float64 `json:"units_risked"`
	UnitsProfit float64 `json:"units_profit"`
	ROI         float64 `json:"roi"`
}

// DaySummary is one calendar day's slice of the sample, dated in the
// configured grouping timezone.
type DaySummary struct {
	Date    string  `json:"date"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Pushes  int     `json:"pushes"`
	WinRate float64 `json:"win_rate"`
	Profit  float64 `json:"units_profit"`
}

// Aggregate folds scored records into a summary. An empty sample yields
// the zero summary rather than NaN rates.
func Aggregate(scored []Scored) Summary {
	var s Summary
	for _, sc := range scored {
		switch sc.Outcome {
		case OutcomeWin:
			s.Wins++
		case OutcomeLoss:
			s.Losses++
		case OutcomePush:
			s.Pushes++
		}
		s.UnitsProfit += sc.Profit
	}
	s.Record = s.Wins + s.Losses + s.Pushes
	// pushes return the stake, so they never count as units at risk
	s.UnitsRisked = float64(s.Wins + s.Losses)
	s.WinRate = pct(s.Wins, s.Wins+s.Losses)
	if s.UnitsRisked > 0 {
		s.ROI = round1(s.UnitsProfit / s.UnitsRisked * 100)
	}
	s.UnitsProfit = round2(s.UnitsProfit)
	return s
}

// GroupByDay buckets scored records by the calendar day of kickoff in
// loc, oldest day first.
func GroupByDay(scored []Scored, loc *time.Location) []DaySummary {
	type tally struct {
		wins, losses, pushes int
		profit               float64
	}
	days := map[string]*tally{}
	for _, sc := range scored {
		key := sc.Record.GameDate.In(loc).Format("2006-01-02")
		t := days[key]
		if t == nil {
			t = &tally{}
			days[key] = t
		}
		switch sc.Outcome {
		case OutcomeWin:
			t.wins++
		case OutcomeLoss:
			t.losses++
		case OutcomePush:
			t.pushes++
		}
		t.profit += sc.Profit
	}

	out := make([]DaySummary, 0, len(days))
	for date, t := range days {
		out = append(out, DaySummary{
			Date:    date,
			Wins:    t.wins,
			Losses:  t.losses,
			Pushes:  t.pushes,
			WinRate: pct(t.wins, t.wins+t.losses),
			Profit:  round2(t.profit),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// pct is n/d as a percentage rounded to one decimal, 0.0 when d is zero.
func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round1(float64(n) / float64(d) * 100)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
