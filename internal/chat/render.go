package chat

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/trainew/trainew/internal/catalog"
	"github.com/trainew/trainew/internal/plan"
)

const videoTipHTML = `<p>💡 <em>Dica: Me diga qual exercício você quer ver (ex: "como fazer supino" ou "me ensina agachamento") e eu te envio um vídeo tutorial!</em></p>`

const planFailureHTML = `<p>❌ Desculpe, ocorreu um erro ao gerar seu treino. Por favor, tente novamente.</p>` +
	`<p>💡 Dica: Informe quantos dias você pode treinar, se é academia ou casa, e seu nível (iniciante/intermediário/avançado)</p>`

// renderPlan builds the full HTML card for a generated workout plan.
func (s *Service) renderPlan(p plan.Plan) string {
	var b strings.Builder

	b.WriteString(`<div class="workout-plan-generated">`)
	b.WriteString(`<h3>🏋️ Seu Treino Personalizado</h3>`)
	fmt.Fprintf(&b, `<p><strong>Divisão:</strong> %dx por semana</p>`, p.DaysPerWeek)
	fmt.Fprintf(&b, `<p><strong>Sistema:</strong> %s</p>`, strings.Join(p.Split, " / "))

	for _, workout := range p.Workouts {
		b.WriteString(`<div class="workout-day-plan">`)
		fmt.Fprintf(&b, `<h4>%s</h4>`, workout.Name)
		fmt.Fprintf(&b, `<p class="muscle-groups">Grupos: %s</p>`, strings.Join(workout.Groups, ", "))
		b.WriteString(`<ul class="exercise-list">`)
		for _, ex := range workout.Exercises {
			marker := "🏋️"
			if ex.Location == catalog.LocationHome {
				marker = "🏠"
			}
			fmt.Fprintf(&b, `<li><strong>%s</strong> - %dx%s (%s descanso) %s</li>`,
				ex.Name, ex.Sets, ex.Reps, ex.Rest, marker)
		}
		b.WriteString(`</ul></div>`)
	}

	b.WriteString(`<div class="workout-notes"><h4>📋 Observações Importantes:</h4><ul>`)
	for _, note := range p.Notes {
		fmt.Fprintf(&b, `<li>%s</li>`, note)
	}
	b.WriteString(`</ul></div></div>`)

	return b.String()
}

// renderExerciseHelp builds the full help card: muscles, all steps, the common
// mistake and a video link.
func (s *Service) renderExerciseHelp(info ExerciseInfo) string {
	var b strings.Builder

	b.WriteString(`<div class="chat-exercise-help">`)
	fmt.Fprintf(&b, `<h4>🎯 %s</h4>`, upperFirst(info.Name))
	fmt.Fprintf(&b, `<p><strong>💪 Músculos trabalhados:</strong> %s</p>`, info.Muscles)
	b.WriteString(`<p><strong>📋 Como fazer (passo a passo):</strong></p>`)
	b.WriteString(`<ol class="exercise-steps">`)
	for _, step := range info.Steps {
		fmt.Fprintf(&b, `<li>%s</li>`, step)
	}
	b.WriteString(`</ol>`)
	fmt.Fprintf(&b, `<p class="exercise-warning">⚠️ <strong>Erro comum:</strong> %s</p>`, info.CommonMistake)
	fmt.Fprintf(&b, `<a href="%s" target="_blank" class="video-link">📹 Assistir vídeo tutorial no YouTube</a>`, VideoURL(info.Name))
	b.WriteString(`</div>`)

	return b.String()
}

// renderExerciseSummary builds the compact info box appended when an exercise
// is mentioned without an explicit video request: the first three steps plus a
// link to the full tutorial.
func (s *Service) renderExerciseSummary(info ExerciseInfo) string {
	var b strings.Builder

	b.WriteString(`<div class="chat-exercise-info">`)
	fmt.Fprintf(&b, `<p><strong>💪 Músculos:</strong> %s</p>`, info.Muscles)
	b.WriteString(`<p><strong>📋 Resumo da execução:</strong></p>`)
	b.WriteString(`<ol class="exercise-steps-compact">`)
	for i, step := range info.Steps {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, `<li>%s</li>`, step)
	}
	if len(info.Steps) > 3 {
		fmt.Fprintf(&b, `<li><em>+ mais %d passos...</em></li>`, len(info.Steps)-3)
	}
	b.WriteString(`</ol>`)
	fmt.Fprintf(&b, `<a href="%s" target="_blank" class="video-link-small">📹 Ver tutorial completo</a>`, VideoURL(info.Name))
	b.WriteString(`</div>`)

	return b.String()
}

// renderNutrition builds the nutrition info box. The explanation text is
// markdown and rendered to HTML.
func (s *Service) renderNutrition(topic NutritionInfo) string {
	var b strings.Builder

	b.WriteString(`<div class="chat-nutrition-info">`)
	fmt.Fprintf(&b, `<h4>🥗 %s</h4>`, upperFirst(topic.Name))

	var info strings.Builder
	if err := s.markdown.Convert([]byte(topic.Info), &info); err != nil {
		fmt.Fprintf(&b, `<p>%s</p>`, topic.Info)
	} else {
		b.WriteString(info.String())
	}

	if topic.Quantity != "" {
		fmt.Fprintf(&b, `<p><strong>Quantidade:</strong> %s</p>`, topic.Quantity)
	}
	if topic.Timing != "" {
		fmt.Fprintf(&b, `<p><strong>Timing:</strong> %s</p>`, topic.Timing)
	}
	if topic.Tip != "" {
		fmt.Fprintf(&b, `<p><strong>⚠️ Atenção:</strong> %s</p>`, topic.Tip)
	}
	b.WriteString(`</div>`)

	return b.String()
}

// upperFirst uppercases the first rune of a string.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
