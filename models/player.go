package models

import "github.com/uptrace/bun"

// Player is league reference data for prop queries.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	PlayerID int    `bun:"player_id,pk" json:"playerID"`
	Name     string `bun:"name,notnull" json:"name"`
	TeamID   int    `bun:"team_id,notnull" json:"teamID"`
	Position string `bun:"position,notnull" json:"position"`
}
