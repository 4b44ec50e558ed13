package ftcscout

import "github.com/okian/ebladvance/internal/domain/scoring"

const eventMatchesQuery = `query EventMatches($code: String!, $season: Int!) {
  eventByCode(code: $code, season: $season) {
    matches {
      matchNum
      teams {
        teamNumber
        alliance
        surrogate
      }
      scores {
        ... on MatchScores2025 {
          red { totalPoints movementRp goalRp patternRp }
          blue { totalPoints movementRp goalRp patternRp }
        }
      }
    }
  }
}`

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data struct {
		EventByCode *struct {
			Matches []Match `json:"matches"`
		} `json:"eventByCode"`
	} `json:"data"`
	Errors []gqlError `json:"errors"`
}

// Alliance names used upstream.
const (
	AllianceRed  = "Red"
	AllianceBlue = "Blue"
)

// Match is a qualification match as reported upstream.
type Match struct {
	MatchNum int         `json:"matchNum"`
	Teams    []MatchTeam `json:"teams"`
	Scores   *Scores     `json:"scores"`
}

// MatchTeam is one team's seat in a match.
type MatchTeam struct {
	TeamNumber int    `json:"teamNumber"`
	Alliance   string `json:"alliance"`
	Surrogate  bool   `json:"surrogate"`
}

// Scores holds both alliances' results. Nil until the match is scored.
type Scores struct {
	Red  *AllianceScore `json:"red"`
	Blue *AllianceScore `json:"blue"`
}

// AllianceScore is one alliance's score and bonus ranking points.
type AllianceScore struct {
	TotalPoints int `json:"totalPoints"`
	MovementRP  int `json:"movementRp"`
	GoalRP      int `json:"goalRp"`
	PatternRP   int `json:"patternRp"`
}

// Result converts to the scoring input.
func (a AllianceScore) Result() scoring.AllianceResult {
	return scoring.AllianceResult{
		TotalPoints: a.TotalPoints,
		MovementRP:  a.MovementRP,
		GoalRP:      a.GoalRP,
		PatternRP:   a.PatternRP,
	}
}

// Scored reports whether both alliances have results.
func (m Match) Scored() bool {
	return m.Scores != nil && m.Scores.Red != nil && m.Scores.Blue != nil
}
