package validate

import (
	"valorant-stats/internal/domain"
)

// roundTraces carries the per-team traces through the validator. The max
// bound is constants.MaxRounds.
type roundTraces struct {
	TeamA []bool `validate:"max=24"`
	TeamB []bool `validate:"max=24"`
}

// MatchHistory checks the round traces of both teams. A round may be flagged for
// both teams or for neither; exclusivity is left to the presentation tie-break.
func MatchHistory(teamA, teamB []bool) error {
	var errs domain.ValidationErrors

	// compares two fields, so it stays outside the tags and is reported first
	if len(teamA) != len(teamB) {
		errs = append(errs, domain.NewValidationError("teamA,teamB", domain.LengthMismatch,
			"team A has %d rounds, team B has %d", len(teamA), len(teamB)))
	}

	lengthErrs, err := check(roundTraces{TeamA: teamA, TeamB: teamB})
	if err != nil {
		return err
	}
	errs = append(errs, lengthErrs...)

	return errs.Err()
}
