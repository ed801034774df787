package stats

import (
	"strings"

	"github.com/yourusername/value-lines/internal/models"
)

// ResolveSide determines which side the target team played in a match.
// Id evidence wins over names; with no evidence it falls back to home and
// reports AttributionDefault so callers can flag it.
func ResolveSide(match models.RawMatchRef, target models.TeamIdentity) (models.Side, models.Attribution) {
	if id := strings.TrimSpace(target.ID); id != "" {
		switch id {
		case strings.TrimSpace(match.HomeTeamID):
			return models.SideHome, models.AttributionID
		case strings.TrimSpace(match.AwayTeamID):
			return models.SideAway, models.AttributionID
		}
	}

	name := strings.ToLower(strings.TrimSpace(target.Name))
	if name != "" {
		if namesMatch(name, match.HomeTeamName) {
			return models.SideHome, models.AttributionName
		}
		if namesMatch(name, match.AwayTeamName) {
			return models.SideAway, models.AttributionName
		}
	}

	return models.SideHome, models.AttributionDefault
}

func namesMatch(target, candidate string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	if c == "" {
		return false
	}
	return strings.Contains(c, target) || strings.Contains(target, c)
}

// opponentName returns the name of the team on the other side
func opponentName(match models.RawMatchRef, side models.Side) string {
	if side == models.SideHome {
		return match.AwayTeamName
	}
	return match.HomeTeamName
}
