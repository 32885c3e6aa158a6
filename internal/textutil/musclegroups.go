package textutil

import "strings"

// muscleGroupKeywords maps a display muscle group to the normalized keywords that
// identify it in exercise names and descriptions. The order determines the order
// groups are reported in.
var muscleGroupKeywords = []struct {
	group    string
	keywords []string
}{
	{"Peito", []string{"supino", "peck", "crucifixo", "flexao", "chest", "peitoral"}},
	{"Costas", []string{"puxada", "remada", "barra fixa", "pulldown", "dorsal", "costas"}},
	{"Pernas", []string{"agachamento", "leg press", "cadeira", "stiff", "panturrilha", "coxa", "gluteo", "perna"}},
	{"Ombros", []string{"desenvolvimento", "elevacao", "shoulder", "ombro", "deltoide"}},
	{"Bíceps", []string{"rosca", "biceps"}},
	{"Tríceps", []string{"triceps", "mergulho", "testa", "frances"}},
	{"Abdômen", []string{"abdominal", "prancha", "crunch", "abs", "core"}},
	{"Cardio", []string{"cardio", "corrida", "esteira", "bicicleta", "bike", "aerobico"}},
}

// ExtractMuscleGroups scans free text (exercise names, descriptions) for muscle
// group keywords and returns the matched groups in declaration order.
func ExtractMuscleGroups(texts ...string) []string {
	var groups []string
	for _, entry := range muscleGroupKeywords {
		for _, text := range texts {
			if containsAny(Normalize(text), entry.keywords) {
				groups = append(groups, entry.group)
				break
			}
		}
	}
	return groups
}

func containsAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
