package models

import "github.com/uptrace/bun"

// TeamRanking is a team's defensive rank per metric computed through the
// named week, versioned by (season, week, team). A game in week W must only
// ever be evaluated against the week W-1 row: the week W row already
// includes the game itself.
type TeamRanking struct {
	bun.BaseModel `bun:"table:team_rankings,alias:tr"`

	ID     int64 `bun:"id,pk,autoincrement" json:"id"`
	Season int   `bun:"season,notnull" json:"season"`
	Week   int   `bun:"week,notnull" json:"week"`
	TeamID int   `bun:"team_id,notnull" json:"teamID"`

	RankPassYardsAllowed      int `bun:"rank_pass_yards_allowed,notnull,default:0" json:"rankPassYardsAllowed"`
	RankRushYardsAllowed      int `bun:"rank_rush_yards_allowed,notnull,default:0" json:"rankRushYardsAllowed"`
	RankReceivingYardsAllowed int `bun:"rank_receiving_yards_allowed,notnull,default:0" json:"rankReceivingYardsAllowed"`
	RankPointsAllowed         int `bun:"rank_points_allowed,notnull,default:0" json:"rankPointsAllowed"`
	RankTotalYardsAllowed     int `bun:"rank_total_yards_allowed,notnull,default:0" json:"rankTotalYardsAllowed"`
}
