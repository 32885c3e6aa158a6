package plan

import (
	"fmt"
	"strings"

	"github.com/trainew/trainew/internal/catalog"
)

// weekDays assigns plan days to weekdays in order.
var weekDays = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo"}

// LegacyRow is the flat per-exercise row shape the workout page consumes. The
// JSON field names are a compatibility contract with stored data.
type LegacyRow struct {
	Day           string   `json:"dia"`
	Exercise      string   `json:"exercicio"`
	Sets          int      `json:"series"`
	Reps          string   `json:"repeticoes"`
	Rest          string   `json:"descanso"`
	Description   string   `json:"descricao"`
	ExerciseID    string   `json:"exercicioId,omitempty"`
	BodyParts     []string `json:"bodyParts,omitempty"`
	TargetMuscles []string `json:"targetMuscles,omitempty"`
}

// LegacyRows flattens the plan into one row per exercise, assigning each
// workout day to a weekday.
func (p Plan) LegacyRows() []LegacyRow {
	var rows []LegacyRow
	for i, workout := range p.Workouts {
		day := fmt.Sprintf("Dia %d", i+1)
		if i < len(weekDays) {
			day = weekDays[i]
		}

		for _, ex := range workout.Exercises {
			marker := "🏋️ Academia"
			if ex.Location == catalog.LocationHome {
				marker = "🏠 Casa"
			}

			rows = append(rows, LegacyRow{
				Day:           day,
				Exercise:      ex.DisplayName(),
				Sets:          ex.Sets,
				Reps:          ex.Reps,
				Rest:          ex.Rest,
				Description:   strings.Join(workout.Groups, ", ") + " - " + marker,
				ExerciseID:    ex.ID,
				BodyParts:     ex.BodyParts,
				TargetMuscles: ex.TargetMuscles,
			})
		}
	}
	return rows
}
