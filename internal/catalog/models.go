// Package catalog owns the exercise catalog: descriptors for every known
// exercise with muscles, body-part tags, equipment, step-by-step instructions,
// and the animation each one resolves to.
package catalog

// Location tags where an exercise can be performed. The stored values are the
// Portuguese tags the persisted plan shape uses.
const (
	LocationGym  = "academia"
	LocationHome = "casa"
)

// Exercise is a single catalog entry. Immutable once loaded.
type Exercise struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	NamePt           string   `json:"namePt" yaml:"namePt"`
	TargetMuscles    []string `json:"targetMuscles" yaml:"targetMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty" yaml:"secondaryMuscles"`
	BodyParts        []string `json:"bodyParts" yaml:"bodyParts"`
	Equipment        []string `json:"equipments,omitempty" yaml:"equipments"`
	Instructions     []string `json:"instructions,omitempty" yaml:"instructions"`
	Location         string   `json:"location" yaml:"location"`
	GifURL           string   `json:"gifUrl,omitempty" yaml:"gifUrl"`
}

// DisplayName prefers the localized name over the canonical one.
func (e Exercise) DisplayName() string {
	if e.NamePt != "" {
		return e.NamePt
	}
	return e.Name
}

// HasBodyPart reports whether the exercise is tagged with the given body part.
func (e Exercise) HasBodyPart(part string) bool {
	for _, p := range e.BodyParts {
		if p == part {
			return true
		}
	}
	return false
}
