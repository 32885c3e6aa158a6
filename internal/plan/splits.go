package plan

// splitDay names one training day and the muscle groups it covers.
type splitDay struct {
	name   string
	groups []string
}

// workoutSplits maps available training days per week to a split. Days outside
// the 2-6 range fall back to the 3-day split.
var workoutSplits = map[int][]splitDay{
	2: {
		{"Treino A - Superior", []string{"Peito", "Costas", "Ombros", "Bíceps", "Tríceps"}},
		{"Treino B - Inferior + Core", []string{"Pernas", "Glúteos", "Panturrilha", "Abdômen"}},
	},
	3: {
		{"Treino A - Push (Empurrar)", []string{"Peito", "Ombros", "Tríceps"}},
		{"Treino B - Pull (Puxar)", []string{"Costas", "Bíceps"}},
		{"Treino C - Legs (Pernas)", []string{"Pernas", "Glúteos", "Panturrilha", "Abdômen"}},
	},
	4: {
		{"Treino A - Peito + Tríceps", []string{"Peito", "Tríceps", "Abdômen"}},
		{"Treino B - Costas + Bíceps", []string{"Costas", "Bíceps"}},
		{"Treino C - Pernas", []string{"Pernas", "Glúteos", "Panturrilha"}},
		{"Treino D - Ombros + Core", []string{"Ombros", "Abdômen", "Panturrilha"}},
	},
	5: {
		{"Treino A - Peito", []string{"Peito", "Abdômen"}},
		{"Treino B - Costas", []string{"Costas"}},
		{"Treino C - Pernas", []string{"Pernas", "Glúteos"}},
		{"Treino D - Ombros", []string{"Ombros", "Panturrilha"}},
		{"Treino E - Braços", []string{"Bíceps", "Tríceps", "Abdômen"}},
	},
	6: {
		{"Treino A - Peito + Tríceps", []string{"Peito", "Tríceps"}},
		{"Treino B - Costas + Bíceps", []string{"Costas", "Bíceps"}},
		{"Treino C - Pernas (Quadríceps)", []string{"Pernas", "Abdômen"}},
		{"Treino D - Ombros", []string{"Ombros", "Panturrilha"}},
		{"Treino E - Pernas (Posterior)", []string{"Glúteos", "Pernas"}},
		{"Treino F - Braços + Core", []string{"Bíceps", "Tríceps", "Abdômen"}},
	},
}

// splitFor returns the split for the given number of training days.
func splitFor(days int) []splitDay {
	if split, ok := workoutSplits[days]; ok {
		return split
	}
	return workoutSplits[3]
}
