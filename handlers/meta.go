package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/thebettingsean/trends-api/engine"
	"github.com/thebettingsean/trends-api/models"
)

// QueryMeta returns the query vocabulary plus the team and referee
// catalogs, so a client can build a query form without hardcoding
// anything.
func (h *Handler) QueryMeta(c echo.Context) error {
	ctx := c.Request().Context()

	var teams []models.Team
	if err := h.db.NewSelect().Model(&teams).Order("abbreviation ASC").Scan(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var referees []string
	err := h.db.NewSelect().Model((*models.Game)(nil)).
		ColumnExpr("DISTINCT referee_name").
		Where("referee_name != ''").
		Order("referee_name ASC").
		Scan(ctx, &referees)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	stats := engine.PropStats()
	sort.Strings(stats)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"query_types": []string{"prop", "team", "referee", "trend"},
		"bet_types":   []string{"spread", "total", "moneyline"},
		"sides":       []string{"home", "away", "over", "under", "favorite", "underdog"},
		"prop_stats":  stats,
		"time_periods": []string{
			"all", "season", "last_season", "L2years", "L3years",
			"since_<year>", "L<n>",
		},
		"filters": map[string][]string{
			"location":         {"any", "home", "away"},
			"is_division":      {"any", "division", "non_division"},
			"is_conference":    {"any", "conference", "non_conference"},
			"is_playoff":       {"any", "playoff", "regular"},
			"is_favorite":      {"any", "favorite", "underdog"},
			"vs_defense_rank":  {"any", "top_5", "top_10", "top_15", "bottom_5", "bottom_10", "bottom_15"},
			"defense_stat":     {"pass", "rush", "receiving", "points", "total_yards"},
			"line_movement":    {"any", "positive", "negative"},
			"prev_game_result": {"any", "won", "lost"},
			"prev_game_role":   {"subject", "opponent"},
		},
		"teams":    teams,
		"referees": referees,
	})
}
