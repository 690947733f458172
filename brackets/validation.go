package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

type ValidationResult struct {
	Valid       bool   `json:"valid"`
	Message     string `json:"message,omitempty"`
	Minimum     int    `json:"minimum"`
	BracketSize int    `json:"bracket_size,omitempty"`
	Byes        int    `json:"byes,omitempty"`
	Recommended int    `json:"recommended,omitempty"`
}

var minimumParticipants = map[models.FormatType]int{
	models.FormatTypeSingleElimination: 2,
	models.FormatTypeDoubleElimination: 3,
	models.FormatTypeRoundRobin:        2,
	models.FormatTypePoolPlay:          3,
}

// ValidateParticipantCount is advisory. Too few participants is invalid;
// an elimination field where byes fill more than half of the first-round
// matches is valid but comes with a recommended power of two.
func ValidateParticipantCount(format models.FormatType, count int) ValidationResult {
	minimum, ok := minimumParticipants[format]
	if !ok {
		return ValidationResult{Message: fmt.Sprintf("unsupported format %q", format)}
	}
	res := ValidationResult{Valid: true, Minimum: minimum}
	if count < minimum {
		res.Valid = false
		res.Message = fmt.Sprintf("%s needs at least %d participants, got %d", format, minimum, count)
		return res
	}
	if format != models.FormatTypeSingleElimination && format != models.FormatTypeDoubleElimination {
		return res
	}

	res.BracketSize = nextPowerOfTwo(count)
	res.Byes = res.BracketSize - count
	// Each bye empties one first-round match slot, so this is the point
	// where byes fill more than half of the first-round matches.
	if res.Byes > res.BracketSize/4 {
		res.Recommended = res.BracketSize
		if lower := res.BracketSize / 2; lower >= minimum {
			res.Recommended = lower
		}
		res.Message = fmt.Sprintf("%d participants in a bracket of %d: more than half of first-round matches are byes (%d of %d); %d participants would fill the bracket",
			count, res.BracketSize, res.Byes, res.BracketSize/2, res.Recommended)
	}
	return res
}
