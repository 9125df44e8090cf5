package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Game is one finalized game with its closing and opening market lines.
// Rows are created by the ingestion jobs and never mutated here.
// Spread values are stored from the home team's perspective (negative =
// home favorite); a zero spread or total means the line was never set.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	GameID     int64     `bun:"game_id,pk" json:"gameID"`
	Season     int       `bun:"season,notnull" json:"season"`
	Week       int       `bun:"week,notnull" json:"week"`
	GameDate   time.Time `bun:"game_date,notnull" json:"gameDate"`
	HomeTeamID int       `bun:"home_team_id,notnull" json:"homeTeamID"`
	AwayTeamID int       `bun:"away_team_id,notnull" json:"awayTeamID"`
	HomeScore  int       `bun:"home_score,notnull,default:0" json:"homeScore"`
	AwayScore  int       `bun:"away_score,notnull,default:0" json:"awayScore"`

	SpreadOpen  float64 `bun:"spread_open,notnull,default:0" json:"spreadOpen"`
	SpreadClose float64 `bun:"spread_close,notnull,default:0" json:"spreadClose"`
	TotalOpen   float64 `bun:"total_open,notnull,default:0" json:"totalOpen"`
	TotalClose  float64 `bun:"total_close,notnull,default:0" json:"totalClose"`
	HomeMLOpen  int     `bun:"home_ml_open,notnull,default:0" json:"homeMLOpen"`
	HomeMLClose int     `bun:"home_ml_close,notnull,default:0" json:"homeMLClose"`
	AwayMLOpen  int     `bun:"away_ml_open,notnull,default:0" json:"awayMLOpen"`
	AwayMLClose int     `bun:"away_ml_close,notnull,default:0" json:"awayMLClose"`

	IsDivision   bool   `bun:"is_division,notnull,default:false" json:"isDivision"`
	IsConference bool   `bun:"is_conference,notnull,default:false" json:"isConference"`
	IsPlayoff    bool   `bun:"is_playoff,notnull,default:false" json:"isPlayoff"`
	RefereeName  string `bun:"referee_name,notnull,default:''" json:"refereeName"`

	HomeTeam *Team `bun:"rel:belongs-to,join:home_team_id=team_id" json:"-"`
	AwayTeam *Team `bun:"rel:belongs-to,join:away_team_id=team_id" json:"-"`
}
