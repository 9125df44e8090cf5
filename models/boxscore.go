package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BoxScore is one player's statistical line for one game. Season, week and
// game_date are denormalized from the game row so player history can be
// ordered without a join.
type BoxScore struct {
	bun.BaseModel `bun:"table:box_scores,alias:b"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	GameID     int64     `bun:"game_id,notnull" json:"gameID"`
	PlayerID   int       `bun:"player_id,notnull" json:"playerID"`
	TeamID     int       `bun:"team_id,notnull" json:"teamID"`
	OpponentID int       `bun:"opponent_id,notnull" json:"opponentID"`
	IsHome     bool      `bun:"is_home,notnull" json:"isHome"`
	Season     int       `bun:"season,notnull" json:"season"`
	Week       int       `bun:"week,notnull" json:"week"`
	GameDate   time.Time `bun:"game_date,notnull" json:"gameDate"`

	PassAttempts    int `bun:"pass_attempts,notnull,default:0" json:"passAttempts"`
	PassCompletions int `bun:"pass_completions,notnull,default:0" json:"passCompletions"`
	PassYards       int `bun:"pass_yards,notnull,default:0" json:"passYards"`
	PassTDs         int `bun:"pass_tds,notnull,default:0" json:"passTDs"`
	Interceptions   int `bun:"interceptions,notnull,default:0" json:"interceptions"`

	RushAttempts int `bun:"rush_attempts,notnull,default:0" json:"rushAttempts"`
	RushYards    int `bun:"rush_yards,notnull,default:0" json:"rushYards"`
	RushTDs      int `bun:"rush_tds,notnull,default:0" json:"rushTDs"`
	RushLong     int `bun:"rush_long,notnull,default:0" json:"rushLong"`

	Targets        int `bun:"targets,notnull,default:0" json:"targets"`
	Receptions     int `bun:"receptions,notnull,default:0" json:"receptions"`
	ReceivingYards int `bun:"receiving_yards,notnull,default:0" json:"receivingYards"`
	ReceivingTDs   int `bun:"receiving_tds,notnull,default:0" json:"receivingTDs"`
	ReceivingLong  int `bun:"receiving_long,notnull,default:0" json:"receivingLong"`

	Game   *Game   `bun:"rel:belongs-to,join:game_id=game_id" json:"-"`
	Player *Player `bun:"rel:belongs-to,join:player_id=player_id" json:"-"`
}
