package chat

import "strings"

// PlanEditReply answers messages in the plan editing chat with guidance on how
// to phrase each kind of change.
func PlanEditReply(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "trocar") || strings.Contains(lower, "substituir"):
		return `Entendido! Para trocar um exercício, me diga qual exercício você quer substituir e por qual você gostaria de substituí-lo. Por exemplo: "Trocar supino reto por supino inclinado".`
	case strings.Contains(lower, "adicionar"):
		return `Ótimo! Para adicionar exercícios, me diga em qual dia você quer adicionar e qual exercício. Por exemplo: "Adicionar rosca direta na segunda-feira".`
	case strings.Contains(lower, "remover") || strings.Contains(lower, "tirar"):
		return `Certo! Me diga qual exercício você quer remover e de qual dia. Por exemplo: "Remover leg press da quarta-feira".`
	case strings.Contains(lower, "séries") || strings.Contains(lower, "series") ||
		strings.Contains(lower, "repetições") || strings.Contains(lower, "repeticoes"):
		return `Para alterar séries e repetições, me diga o exercício e os novos valores. Por exemplo: "Mudar supino para 4 séries de 10 repetições".`
	case strings.Contains(lower, "ordem"):
		return `Para mudar a ordem dos exercícios, me diga qual exercício quer mover e para qual posição. Por exemplo: "Mover puxada frontal para antes da remada".`
	default:
		return "Entendi! Para modificar seu treino, você pode:\n\n🔄 Trocar exercícios\n➕ Adicionar novos exercícios\n➖ Remover exercícios\n📊 Alterar séries e repetições\n↕️ Mudar a ordem\n\nMe diga o que você gostaria de fazer!"
	}
}
