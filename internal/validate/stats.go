package validate

import (
	"valorant-stats/internal/domain"
)

// PlayerStats checks a single record against its validate tags. KillDeathRatio
// is not checked; it is recomputed on write.
func PlayerStats(p domain.PlayerStats) error {
	errs, err := check(p)
	if err != nil {
		return err
	}
	return errs.Err()
}

// Players validates each record and the uniqueness of player identifiers.
// Field names are prefixed with the player's identifier.
func Players(players []domain.PlayerStats) error {
	var errs domain.ValidationErrors
	seen := make(map[string]struct{}, len(players))

	for _, p := range players {
		id := p.Identifier()
		fieldErrs, err := check(p)
		if err != nil {
			return err
		}
		errs = append(errs, prefixed(fieldErrs, id)...)

		// uniqueness spans records, which struct tags cannot express
		if _, dup := seen[id]; dup {
			errs = append(errs, domain.NewValidationError(id, domain.DuplicatePlayer, "player appears more than once"))
		}
		seen[id] = struct{}{}
	}

	return errs.Err()
}

func WeaponStats(w domain.WeaponStats) error {
	errs, err := check(w)
	if err != nil {
		return err
	}
	return errs.Err()
}

func Weapons(weapons []domain.WeaponStats) error {
	var errs domain.ValidationErrors
	for _, w := range weapons {
		fieldErrs, err := check(w)
		if err != nil {
			return err
		}
		errs = append(errs, prefixed(fieldErrs, w.WeaponName)...)
	}
	return errs.Err()
}
