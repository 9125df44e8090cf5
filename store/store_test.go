package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"
)

type StoreTestSuite struct {
	suite.Suite
	db    *bun.DB
	mock  sqlmock.Sqlmock
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	require.NoError(s.T(), err)

	s.db = bun.NewDB(mockDB, pgdialect.New())
	s.mock = mock
	s.store = New(s.db, zap.NewNop(), 2, time.Millisecond)
}

func (s *StoreTestSuite) TearDownTest() {
	s.db.Close()
}

func gameRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"game_id", "season", "week", "game_date",
		"home_team_id", "away_team_id", "home_score", "away_score", "spread_close",
	}).AddRow(
		int64(101), 2026, 8, time.Date(2026, 10, 25, 17, 0, 0, 0, time.UTC),
		9, 5, 27, 20, -3.5,
	)
}

func (s *StoreTestSuite) TestGamesByTeam() {
	s.mock.ExpectQuery(`FROM games g(.|\s)*g\.home_team_id = 9 OR g\.away_team_id = 9(.|\s)*ORDER BY g\.game_date DESC`).
		WillReturnRows(gameRows())

	rows, err := s.store.Games(context.Background(), GamesFilter{TeamID: 9})
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 1)
	assert.Equal(s.T(), int64(101), rows[0].GameID)
	assert.Equal(s.T(), -3.5, rows[0].SpreadClose)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *StoreTestSuite) TestGamesSeasonBoundsAndLimit() {
	s.mock.ExpectQuery(`g\.season >= 2024(.|\s)*g\.season <= 2026(.|\s)*LIMIT 50`).
		WillReturnRows(gameRows())

	_, err := s.store.Games(context.Background(), GamesFilter{
		TeamID: 9, SeasonMin: 2024, SeasonMax: 2026, Limit: 50,
	})
	require.NoError(s.T(), err)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *StoreTestSuite) TestGamesRetriesTransientFailure() {
	s.mock.ExpectQuery(`FROM games g`).
		WillReturnError(errors.New("connection reset"))
	s.mock.ExpectQuery(`FROM games g`).
		WillReturnRows(gameRows())

	rows, err := s.store.Games(context.Background(), GamesFilter{TeamID: 9})
	require.NoError(s.T(), err)
	assert.Len(s.T(), rows, 1)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *StoreTestSuite) TestGamesRetriesExhausted() {
	s.mock.ExpectQuery(`FROM games g`).
		WillReturnError(errors.New("connection reset"))
	s.mock.ExpectQuery(`FROM games g`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.store.Games(context.Background(), GamesFilter{TeamID: 9})
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "fetch games")
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *StoreTestSuite) TestPlayerGames() {
	rows := sqlmock.NewRows([]string{
		"game_id", "season", "week", "game_date", "home_team_id", "away_team_id",
		"home_score", "away_score", "spread_close",
		"box_id", "player_id", "player_name", "position",
		"team_id", "opponent_id", "is_home", "rush_yards",
	}).AddRow(
		int64(101), 2026, 8, time.Date(2026, 10, 25, 17, 0, 0, 0, time.UTC),
		9, 5, 27, 20, -3.5,
		int64(7001), 4881, "J. Carter", "RB",
		9, 5, true, 112,
	)
	s.mock.ExpectQuery(`FROM box_scores b(.|\s)*b\.player_id = 4881`).
		WillReturnRows(rows)

	got, err := s.store.PlayerGames(context.Background(), PropFilter{PlayerID: 4881})
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), "J. Carter", got[0].PlayerName)
	assert.Equal(s.T(), 112, got[0].RushYards)
	assert.True(s.T(), got[0].IsHome)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *StoreTestSuite) TestDefenseRanksGroupsByWeek() {
	rankRows := func(week, teamID, rank int) *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"season", "week", "team_id", "rank_total_yards_allowed",
		}).AddRow(2026, week, teamID, rank)
	}
	s.mock.ExpectQuery(`FROM team_rankings tr(.|\s)*tr\.week = 7`).
		WillReturnRows(rankRows(7, 12, 3))

	keys := []RankKey{{Season: 2026, Week: 7, TeamID: 12}}
	got, err := s.store.DefenseRanks(context.Background(), keys)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), 3, got[keys[0]].TotalYardsAllowed)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *StoreTestSuite) TestPrevGameNoHistory() {
	s.mock.ExpectQuery(`g\.game_date <(.|\s)*LIMIT 1`).
		WillReturnError(sql.ErrNoRows)

	row, err := s.store.PrevGame(context.Background(), 9, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(s.T(), err)
	assert.Nil(s.T(), row)
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
