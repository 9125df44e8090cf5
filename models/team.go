package models

import "github.com/uptrace/bun"

// Team is league reference data used to decorate query results.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	TeamID       int    `bun:"team_id,pk" json:"teamID"`
	Name         string `bun:"name,notnull" json:"name"`
	Abbreviation string `bun:"abbreviation,notnull" json:"abbreviation"`
	Division     string `bun:"division,notnull" json:"division"`
	Conference   string `bun:"conference,notnull" json:"conference"`
}
