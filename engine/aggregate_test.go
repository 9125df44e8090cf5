package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	scored := []Scored{
		{Outcome: OutcomeWin, Profit: 100.0 / 110.0},
		{Outcome: OutcomeWin, Profit: 100.0 / 110.0},
		{Outcome: OutcomeLoss, Profit: -1},
		{Outcome: OutcomePush, Profit: 0},
	}

	s := Aggregate(scored)
	assert.Equal(t, 4, s.Record)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Pushes)
	// pushes count in the record but not against the win rate or units
	assert.Equal(t, 66.7, s.WinRate)
	assert.Equal(t, 3.0, s.UnitsRisked)
	assert.Equal(t, 0.82, s.UnitsProfit)
	assert.Equal(t, 27.3, s.ROI)
}

func TestAggregateEmptySample(t *testing.T) {
	s := Aggregate(nil)
	assert.Zero(t, s.Record)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0.0, s.ROI)
}

func TestAggregatePushesOnly(t *testing.T) {
	s := Aggregate([]Scored{{Outcome: OutcomePush}, {Outcome: OutcomePush}})
	assert.Equal(t, 2, s.Record)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0.0, s.ROI)
}

func TestGroupByDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	day := func(d string, hourUTC int) time.Time {
		ts, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		return ts.Add(time.Duration(hourUTC) * time.Hour)
	}

	scored := []Scored{
		{Record: Record{GameDate: day("2026-10-11", 17)}, Outcome: OutcomeWin, Profit: 0.91},
		{Record: Record{GameDate: day("2026-10-11", 20)}, Outcome: OutcomeLoss, Profit: -1},
		// 1am UTC Monday is still Sunday evening in New York
		{Record: Record{GameDate: day("2026-10-12", 1)}, Outcome: OutcomeWin, Profit: 0.91},
		{Record: Record{GameDate: day("2026-10-18", 17)}, Outcome: OutcomePush},
	}

	days := GroupByDay(scored, ny)
	require.Len(t, days, 2)

	assert.Equal(t, "2026-10-11", days[0].Date)
	assert.Equal(t, 2, days[0].Wins)
	assert.Equal(t, 1, days[0].Losses)
	assert.Equal(t, 66.7, days[0].WinRate)
	assert.Equal(t, 0.82, days[0].Profit)

	assert.Equal(t, "2026-10-18", days[1].Date)
	assert.Equal(t, 1, days[1].Pushes)
}
