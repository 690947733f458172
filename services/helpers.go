package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

// handleRepositoryError maps snapshot store errors to service errors.
func handleRepositoryError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrSnapshotNotFound):
		return notFound
	case errors.Is(err, repositories.ErrSnapshotConflict):
		return ErrConflict
	}
	return err
}

// mergeSettings fills what the caller left empty from the service defaults
// and then from the engine defaults.
func mergeSettings(in, defaults models.GenerationSettings) models.GenerationSettings {
	if in.Seeding == "" {
		in.Seeding = defaults.Seeding
	}
	if in.BestOf < 1 {
		in.BestOf = defaults.BestOf
		if in.FinalsBestOf < 1 {
			in.FinalsBestOf = defaults.FinalsBestOf
		}
	}
	return in.WithDefaults()
}

// prepareParticipants drops withdrawn registrations and rejects malformed or
// repeated participants.
func prepareParticipants(in []models.Participant) ([]models.Participant, error) {
	out := make([]models.Participant, 0, len(in))
	seen := make(map[int]bool, len(in))
	for i, p := range in {
		if p.Status == models.RegistrationWithdrawn {
			continue
		}
		switch {
		case p.Kind == models.ParticipantSingles && p.Player == nil,
			p.Kind == models.ParticipantDoubles && p.Team == nil:
			return nil, fmt.Errorf("%w: participant %d has no %s record", ErrValidationFailed, i+1, p.Kind)
		case p.Kind != models.ParticipantSingles && p.Kind != models.ParticipantDoubles:
			return nil, fmt.Errorf("%w: participant %d has unknown kind %q", ErrValidationFailed, i+1, p.Kind)
		case p.ID() <= 0:
			return nil, fmt.Errorf("%w: participant %d needs a positive id", ErrValidationFailed, i+1)
		}
		if seen[p.ID()] {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateParticipant, p.ID())
		}
		seen[p.ID()] = true
		out = append(out, p)
	}
	return out, nil
}

func displayNames(ps []models.Participant) map[int]string {
	names := make(map[int]string, len(ps))
	for _, p := range ps {
		names[p.ID()] = p.DisplayName()
	}
	return names
}
