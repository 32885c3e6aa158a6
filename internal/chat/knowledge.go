package chat

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/exercises.yaml
var exerciseKnowledgeData []byte

//go:embed data/nutrition.yaml
var nutritionKnowledgeData []byte

// ExerciseInfo is one exercise knowledge entry: which muscles it works, how to
// perform it, and what usually goes wrong.
type ExerciseInfo struct {
	Name          string   `yaml:"name"`
	Muscles       string   `yaml:"muscles"`
	Steps         []string `yaml:"steps"`
	CommonMistake string   `yaml:"commonMistake"`
	Variants      []string `yaml:"variants"`
}

// NutritionInfo is one nutrition knowledge entry. Quantity, Timing and Tip are
// optional.
type NutritionInfo struct {
	Name     string `yaml:"name"`
	Info     string `yaml:"info"`
	Quantity string `yaml:"quantity"`
	Timing   string `yaml:"timing"`
	Tip      string `yaml:"tip"`
}

// knowledgeBase holds the static chat knowledge, loaded once at startup and
// never mutated. Slices keep the dataset order because the first match wins.
type knowledgeBase struct {
	exercises []ExerciseInfo
	nutrition []NutritionInfo
}

// loadKnowledge parses the embedded knowledge datasets.
func loadKnowledge() (*knowledgeBase, error) {
	var kb knowledgeBase
	if err := yaml.Unmarshal(exerciseKnowledgeData, &kb.exercises); err != nil {
		return nil, fmt.Errorf("unmarshal exercise knowledge: %w", err)
	}
	if err := yaml.Unmarshal(nutritionKnowledgeData, &kb.nutrition); err != nil {
		return nil, fmt.Errorf("unmarshal nutrition knowledge: %w", err)
	}
	return &kb, nil
}

// findExercise returns the first exercise entry whose name appears in the
// lowercased message, or nil.
func (kb *knowledgeBase) findExercise(lowerMessage string) *ExerciseInfo {
	for i := range kb.exercises {
		if strings.Contains(lowerMessage, kb.exercises[i].Name) {
			return &kb.exercises[i]
		}
	}
	return nil
}

// findNutrition returns the first nutrition entry whose name appears in the
// lowercased message, or nil.
func (kb *knowledgeBase) findNutrition(lowerMessage string) *NutritionInfo {
	for i := range kb.nutrition {
		if strings.Contains(lowerMessage, kb.nutrition[i].Name) {
			return &kb.nutrition[i]
		}
	}
	return nil
}
