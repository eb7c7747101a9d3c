package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/school/internal/app/models"
	appRepos "github.com/yigit/school/internal/app/repositories"
)

// DefaultFaculties are created on an empty database
var DefaultFaculties = []appModels.Faculty{
	{Name: "Gryffindor", Color: "red"},
	{Name: "Slytherin", Color: "green"},
	{Name: "Ravenclaw", Color: "blue"},
	{Name: "Hufflepuff", Color: "yellow"},
}

// CreateDefaultData creates the default faculties when no faculty exists yet.
// It returns the number of faculties created.
func CreateDefaultData(ctx context.Context, facultyRepo appRepos.FacultyRepository, lgr zerolog.Logger) (int, error) {
	lgr.Info().Msg("Checking/Creating default data (Faculties)...")

	existing, err := facultyRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list faculties: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("faculties", len(existing)).Msg("Faculties already present, skipping default data")
		return 0, nil
	}

	var (
		created  int
		finalErr error // collects errors without stopping the remaining inserts
	)
	for _, f := range DefaultFaculties {
		faculty := f
		if _, err := facultyRepo.Save(ctx, &faculty); err != nil {
			lgr.Error().Err(err).Str("faculty", f.Name).Msg("Error creating default faculty")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Default data check/creation finished.")
	return created, finalErr
}
