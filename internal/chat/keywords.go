package chat

import "strings"

// Keyword lists for intent classification. Matching is a lowercase substring
// check, so accented and unaccented spellings are both listed.
var (
	workoutKeywords = []string{
		"treino", "exercício", "exercicio", "musculação", "musculacao",
		"academia", "série", "serie", "repetição", "repeticao",
		"supino", "agachamento", "rosca", "puxada", "remada",
		"leg press", "desenvolvimento", "crucifixo", "stiff",
		"como fazer", "como executar", "execução", "execucao",
		"técnica", "tecnica", "forma correta", "postura",
		"montar treino", "criar treino", "gerar treino", "divisão",
		"ficha", "ficha de treino", "rotina", "programa",
	}
	nutritionKeywords = []string{
		"dieta", "alimentação", "alimentacao", "comida", "nutrição", "nutricao",
		"proteína", "proteina", "carboidrato", "gordura",
		"caloria", "calorias", "emagrecer", "ganhar massa",
		"bulking", "cutting", "deficit", "superavit",
		"refeição", "refeicao", "café da manhã", "almoço", "almoco",
		"janta", "lanche", "pré-treino", "pós-treino", "suplemento",
	}
	videoHelpKeywords = []string{
		"como fazer", "como executar", "me ensina", "ensine",
		"tutorial", "vídeo", "video", "demonstração", "demonstracao",
		"me mostre", "mostre", "exemplo", "aprende", "aprender",
	}
	generatePlanKeywords = []string{
		"montar treino", "criar treino", "gerar treino", "monte um treino",
		"crie um treino", "preciso de um treino", "quero um treino",
		"fazer treino", "divisão de treino", "rotina", "programa de treino",
	}
)

// Context describes every intent signal detected in one message. Signals are
// independent; the response branch is chosen from their combination.
type Context struct {
	Workout      bool
	Nutrition    bool
	VideoHelp    bool
	GeneratePlan bool
	Exercise     *ExerciseInfo
}

// classify inspects a message for intent keywords and a known exercise name.
func (kb *knowledgeBase) classify(message string) Context {
	lower := strings.ToLower(message)
	return Context{
		Workout:      matchesAny(lower, workoutKeywords),
		Nutrition:    matchesAny(lower, nutritionKeywords),
		VideoHelp:    matchesAny(lower, videoHelpKeywords),
		GeneratePlan: matchesAny(lower, generatePlanKeywords),
		Exercise:     kb.findExercise(lower),
	}
}

func matchesAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
