package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadRangeUsesSubjectPerspective(t *testing.T) {
	q := Query{Type: QueryTeam, Bet: BetSpread, SpreadRange: Range{Min: f64(-7), Max: f64(-3)}}
	plan := Compile(q, 32)

	home := Record{SubjectHome: true, SpreadClose: -4}  // laying 4
	away := Record{SubjectHome: false, SpreadClose: 4}  // away side laying 4
	dog := Record{SubjectHome: true, SpreadClose: 6.5}  // taking points

	kept := plan.Apply([]Record{home, away, dog})
	require.Len(t, kept, 2)
	assert.Equal(t, -4.0, kept[0].SubjectSpread())
	assert.Equal(t, -4.0, kept[1].SubjectSpread())
}

func TestLineMovementPerMarket(t *testing.T) {
	rec := Record{
		SubjectHome: true,
		SpreadOpen:  -3, SpreadClose: -4.5,
		TotalOpen: 44, TotalClose: 42.5,
		SubjectMLOpen: -150, SubjectMLClose: -180,
	}

	spread := Compile(Query{Bet: BetSpread, LineMove: LineMoveDown}, 32)
	assert.Len(t, spread.Apply([]Record{rec}), 1)

	total := Compile(Query{Bet: BetTotal, LineMove: LineMoveUp}, 32)
	assert.Empty(t, total.Apply([]Record{rec}))

	ml := Compile(Query{Bet: BetMoneyline, LineMove: LineMoveDown}, 32)
	assert.Len(t, ml.Apply([]Record{rec}), 1)
}

func TestFavoriteFilterExcludesPickems(t *testing.T) {
	plan := Compile(Query{Type: QueryTeam, Bet: BetSpread, Favorite: FavoriteOnly}, 32)

	fav := Record{SubjectHome: true, SpreadClose: -3}
	dog := Record{SubjectHome: true, SpreadClose: 3}
	pickem := Record{SubjectHome: true, SpreadClose: 0}

	kept := plan.Apply([]Record{fav, dog, pickem})
	require.Len(t, kept, 1)
	assert.Equal(t, -3.0, kept[0].SpreadClose)
}

func TestLabelsStartWithWindow(t *testing.T) {
	q := Query{
		Window:   TimeWindow{Kind: TimeLastN, N: 10},
		Location: LocationHome,
		Playoff:  BoolNo,
	}
	labels := Compile(q, 32).Labels()
	require.NotEmpty(t, labels)
	assert.Equal(t, "last_10_games", labels[0])
	assert.Contains(t, labels, "location=home")
	assert.Contains(t, labels, "non_playoff")
}
