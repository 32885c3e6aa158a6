package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/exercises.yaml
var seedData []byte

// loadSeedExercises parses the embedded catalog dataset.
func loadSeedExercises() ([]Exercise, error) {
	var exercises []Exercise
	if err := yaml.Unmarshal(seedData, &exercises); err != nil {
		return nil, fmt.Errorf("unmarshal exercise dataset: %w", err)
	}
	for _, ex := range exercises {
		if ex.ID == "" || ex.Name == "" {
			return nil, fmt.Errorf("exercise dataset entry missing id or name (id: %q, name: %q)", ex.ID, ex.Name)
		}
	}
	return exercises, nil
}
