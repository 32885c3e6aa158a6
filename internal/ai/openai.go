package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const model = openai.ChatModelGPT4oMini

const temperature = 0.8

const systemPrompt = `
Você é o assistente **TrainewIA**, especializado em treinos e alimentação acessível.
Sua missão é montar planos personalizados com base nas informações do usuário.

🧩 ETAPAS:
1. Faça perguntas curtas e simpáticas, **uma por vez**, para entender o usuário:
   - Gênero
   - Idade
   - Altura
   - Peso
   - Objetivo (emagrecer, ganhar massa, manter)
   - Local de treino (casa, academia, etc.)
   - Tempo disponível por dia
   - Restrições alimentares (caso for montar dieta)
2. Só monte o plano (treino ou dieta) quando todas as informações estiverem completas.
3. Sempre que gerar o plano, retorne **apenas JSON válido**, nesse formato:
{
  "type": "treino" ou "dieta",
  "data": [
    { "dia": "Segunda", "exercicio" ou "refeicao": "Nome", "descricao": "Detalhes curtos" }
  ]
}
⚠️ NÃO use markdown ou explicações sobre o JSON.

📢 Após gerar o JSON, envie uma resposta natural e motivadora:
- Se for treino: "💪 Treino pronto! Acesse a aba (Treinos(Clicável e com cor azul para o usuario clicar)) para visualizar!"
- Se for dieta: "🥗 Dieta pronta! Veja tudo na aba (Dieta(Clicável e com cor azul para o usuario clicar))"
- Depois de um plano de treino, pergunte: "Deseja que eu monte uma dieta também?"
- Depois de uma dieta, pergunte: "Quer que eu monte um plano de treino também?"
- Depois de um plano de treino ou dieta, pergunte: "Gostaria de ajustar algo?"
- Não mostre o JSON ao usuário diretamente.

💬 Regras:
- Fale sempre com empatia e frases curtas.
- Espere respostas simples do usuário antes de prosseguir.
- Sempre confirme as informações antes de montar o plano.
- Nunca quebre o formato JSON ao enviar o plano.
- Não mostre explicações sobre o JSON.
- Não inclua informações sensíveis ou pessoais.
`

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var planPayloadSchema = generateSchema[PlanPayload]()

// OpenAIClient implements Client against the OpenAI chat completions API.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a client authenticated with the given API key.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Send asks the assistant for a reply, replaying the conversation history so
// the model keeps its place in the question flow.
func (c *OpenAIClient) Send(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, msg := range history {
		if msg.Sender == "user" {
			messages = append(messages, openai.UserMessage(msg.Text))
		} else {
			messages = append(messages, openai.AssistantMessage(msg.Text))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    messages,
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

// ExtractPlan re-reads an assistant reply with a structured output schema so
// the embedded plan JSON comes back in a guaranteed shape.
func (c *OpenAIClient) ExtractPlan(ctx context.Context, reply string) (PlanPayload, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "plan",
		Description: openai.String("Workout or diet plan extracted from an assistant reply"),
		Schema:      planPayloadSchema,
		Strict:      openai.Bool(true),
	}

	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(
				`Extraia o plano de treino ou dieta contido na mensagem e devolva apenas o JSON no formato pedido.`),
			openai.UserMessage(reply),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
	})
	if err != nil {
		return PlanPayload{}, fmt.Errorf("extract plan completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return PlanPayload{}, fmt.Errorf("extract plan completion returned no choices")
	}

	var payload PlanPayload
	if err = json.Unmarshal([]byte(chat.Choices[0].Message.Content), &payload); err != nil {
		return PlanPayload{}, fmt.Errorf("unmarshal plan payload: %w", err)
	}

	return payload, nil
}
