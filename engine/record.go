package engine

import (
	"time"

	"github.com/thebettingsean/trends-api/store"
)

// Record is one subject-perspective game: the raw row rebased onto
// whichever team the query is betting on. Every downstream predicate and
// the classifier read subject fields and never re-derive orientation.
type Record struct {
	GameID   int64
	Season   int
	Week     int
	GameDate time.Time

	SubjectTeamID  int
	OpponentTeamID int
	SubjectHome    bool
	SubjectAbbr    string
	OpponentAbbr   string

	SubjectScore  int
	OpponentScore int

	// Home-perspective market numbers, kept raw so open/close deltas and
	// totals stay orientation-free.
	SpreadOpen  float64
	SpreadClose float64
	TotalOpen   float64
	TotalClose  float64

	SubjectMLOpen   int
	SubjectMLClose  int
	OpponentMLClose int

	IsDivision   bool
	IsConference bool
	IsPlayoff    bool
	RefereeName  string

	// Prop-only fields; zero for game queries.
	PlayerID   int
	PlayerName string
	Position   string
	StatValue  float64

	// Filled during filter resolution.
	PrevKnown  bool
	PrevMargin float64 // subject's prior-game score margin, positive = won
	OppRank    int     // opponent defensive rank at week-1, 0 = unknown
}

// SubjectSpread is the closing spread from the subject's perspective:
// negative means the subject was laying points.
func (r *Record) SubjectSpread() float64 {
	if r.SubjectHome {
		return r.SpreadClose
	}
	return -r.SpreadClose
}

// SubjectSpreadOpen is the opening spread from the subject's perspective.
func (r *Record) SubjectSpreadOpen() float64 {
	if r.SubjectHome {
		return r.SpreadOpen
	}
	return -r.SpreadOpen
}

// Margin is the subject's score margin; positive means the subject won.
func (r *Record) Margin() float64 {
	return float64(r.SubjectScore - r.OpponentScore)
}

// gameRecord rebases one game row onto the given subject team.
func gameRecord(row store.GameRow, subjectHome bool) Record {
	rec := Record{
		GameID:       row.GameID,
		Season:       row.Season,
		Week:         row.Week,
		GameDate:     row.GameDate,
		SubjectHome:  subjectHome,
		SpreadOpen:   row.SpreadOpen,
		SpreadClose:  row.SpreadClose,
		TotalOpen:    row.TotalOpen,
		TotalClose:   row.TotalClose,
		IsDivision:   row.IsDivision,
		IsConference: row.IsConference,
		IsPlayoff:    row.IsPlayoff,
		RefereeName:  row.RefereeName,
	}
	if subjectHome {
		rec.SubjectTeamID = row.HomeTeamID
		rec.OpponentTeamID = row.AwayTeamID
		rec.SubjectAbbr = row.HomeAbbr
		rec.OpponentAbbr = row.AwayAbbr
		rec.SubjectScore = row.HomeScore
		rec.OpponentScore = row.AwayScore
		rec.SubjectMLOpen = row.HomeMLOpen
		rec.SubjectMLClose = row.HomeMLClose
		rec.OpponentMLClose = row.AwayMLClose
	} else {
		rec.SubjectTeamID = row.AwayTeamID
		rec.OpponentTeamID = row.HomeTeamID
		rec.SubjectAbbr = row.AwayAbbr
		rec.OpponentAbbr = row.HomeAbbr
		rec.SubjectScore = row.AwayScore
		rec.OpponentScore = row.HomeScore
		rec.SubjectMLOpen = row.AwayMLOpen
		rec.SubjectMLClose = row.AwayMLClose
		rec.OpponentMLClose = row.HomeMLClose
	}
	return rec
}

// bindGameRecords turns fetched game rows into subject-perspective records.
// Team queries bind to the named team; side-driven queries (trend, referee,
// or team-by-side) bind each row independently. Rows whose subject cannot
// be determined (a pick'em when betting the favorite) are skipped and
// counted.
func bindGameRecords(q Query, rows []store.GameRow) (recs []Record, unbindable int) {
	recs = make([]Record, 0, len(rows))
	for _, row := range rows {
		var subjectHome bool
		switch {
		case q.TeamID != 0:
			subjectHome = row.HomeTeamID == q.TeamID
		case q.Side == SideHome, q.Side == SideOver, q.Side == SideUnder:
			// Totals have no team side; home carries the record.
			subjectHome = true
		case q.Side == SideAway:
			subjectHome = false
		case q.Side == SideFavorite:
			if row.SpreadClose == 0 {
				unbindable++
				continue
			}
			subjectHome = row.SpreadClose < 0
		case q.Side == SideUnderdog:
			if row.SpreadClose == 0 {
				unbindable++
				continue
			}
			subjectHome = row.SpreadClose > 0
		default:
			subjectHome = true
		}
		recs = append(recs, gameRecord(row, subjectHome))
	}
	return recs, unbindable
}

// bindPlayerRecords turns box-score rows into records whose subject is the
// player's team.
func bindPlayerRecords(q Query, rows []store.PlayerRow) []Record {
	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := gameRecord(row.GameRow, row.IsHome)
		rec.PlayerID = row.PlayerID
		rec.PlayerName = row.PlayerName
		rec.Position = row.Position
		rec.StatValue = statValue(q.Stat, row)
		recs = append(recs, rec)
	}
	return recs
}

// statValue reads a box-score line through a stat code. Combo stats are
// computed here rather than stored.
func statValue(stat StatCode, b store.PlayerRow) float64 {
	switch stat {
	case StatPassYards:
		return float64(b.PassYards)
	case StatPassTDs:
		return float64(b.PassTDs)
	case StatPassAttempts:
		return float64(b.PassAttempts)
	case StatPassCompletions:
		return float64(b.PassCompletions)
	case StatInterceptions:
		return float64(b.Interceptions)
	case StatRushYards:
		return float64(b.RushYards)
	case StatRushTDs:
		return float64(b.RushTDs)
	case StatRushAttempts:
		return float64(b.RushAttempts)
	case StatRushLong:
		return float64(b.RushLong)
	case StatReceivingYards:
		return float64(b.ReceivingYards)
	case StatReceptions:
		return float64(b.Receptions)
	case StatReceivingTDs:
		return float64(b.ReceivingTDs)
	case StatReceivingLong:
		return float64(b.ReceivingLong)
	case StatTargets:
		return float64(b.Targets)
	case StatCompPlusRush:
		return float64(b.PassCompletions + b.RushYards)
	case StatFantasyPoints:
		return 0.04*float64(b.PassYards) + 4*float64(b.PassTDs) - float64(b.Interceptions) +
			0.1*float64(b.RushYards) + 6*float64(b.RushTDs) +
			float64(b.Receptions) + 0.1*float64(b.ReceivingYards) + 6*float64(b.ReceivingTDs)
	default:
		return 0
	}
}
