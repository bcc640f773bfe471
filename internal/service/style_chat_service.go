package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/stylecloset/wardrobe-service/internal/domain"
)

var (
	// ErrChatUpstream marks a failed or empty model call; handlers map it to 502.
	ErrChatUpstream = errors.New("style chat upstream failure")
	// ErrChatBadReply marks a reply that does not match the response contract.
	ErrChatBadReply = errors.New("style chat reply did not match the contract")
)

const styleChatSystemPrompt = `Voce e um consultor de estilo. Conduza uma conversa para definir um perfil de estilo.
Objetivo: obter um perfil com os campos:
- perception
- styles
- colorsPreferred
- colorsAvoid
- occasions
- formality (baixo/medio/alto)
- silhouettes
- materials
- avoidPieces

Regras:
- Seja conciso e amigavel.
- Se ja tiver informacao suficiente, pergunte: "Posso gerar o perfil agora?".
- Se o usuario confirmar, responda com um resumo final do perfil e marque ready=true.
- Caso faltem dados importantes, faca apenas uma pergunta de follow-up por vez.
- Use o historico e o perfil parcial fornecido para evitar perguntas repetidas.

Retorne SOMENTE JSON no formato especificado.`

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StyleProfilePayload is the partial profile exchanged with the model.
// All fields are optional; the chat fills them in over several turns.
type StyleProfilePayload struct {
	Perception      *string `json:"perception"`
	Styles          *string `json:"styles"`
	ColorsPreferred *string `json:"colorsPreferred"`
	ColorsAvoid     *string `json:"colorsAvoid"`
	Occasions       *string `json:"occasions"`
	Formality       *string `json:"formality"`
	Silhouettes     *string `json:"silhouettes"`
	Materials       *string `json:"materials"`
	AvoidPieces     *string `json:"avoidPieces"`
}

type StyleChatResult struct {
	AssistantMessage string              `json:"assistant_message"`
	Ready            bool                `json:"ready"`
	Profile          StyleProfilePayload `json:"profile"`
}

// ChatCompleter abstracts the model call so the service is testable without
// network access.
type ChatCompleter interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error)
}

type OpenAICompleter struct{ client openai.Client }

func NewOpenAICompleter(apiKey string) *OpenAICompleter {
	return &OpenAICompleter{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (c *OpenAICompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type StyleChatService struct {
	completer ChatCompleter
	model     string
}

func NewStyleChatService(completer ChatCompleter, model string) *StyleChatService {
	return &StyleChatService{completer: completer, model: model}
}

// Advise sends the conversation plus the partial profile to the model with a
// strict JSON-schema response format, then re-validates the reply before
// trusting it.
func (s *StyleChatService) Advise(ctx context.Context, messages []ChatMessage, profile *StyleProfilePayload) (*StyleChatResult, error) {
	partial, err := json.Marshal(profileOrEmpty(profile))
	if err != nil {
		return nil, fmt.Errorf("marshal partial profile: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: append([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(styleChatSystemPrompt),
			openai.SystemMessage("Perfil parcial (JSON): " + string(partial)),
		}, toOpenAIMessages(messages)...),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "style_chat_response",
					Strict: openai.Bool(true),
					Schema: styleChatResponseSchema(),
				},
			},
		},
	}

	raw, err := s.completer.Complete(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChatUpstream, err)
	}

	var result StyleChatResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChatBadReply, err)
	}
	if result.AssistantMessage == "" {
		return nil, fmt.Errorf("%w: empty assistant message", ErrChatBadReply)
	}
	if f := result.Profile.Formality; f != nil && !domain.ValidFormality(*f) {
		return nil, fmt.Errorf("%w: unknown formality %q", ErrChatBadReply, *f)
	}
	return &result, nil
}

func profileOrEmpty(p *StyleProfilePayload) StyleProfilePayload {
	if p == nil {
		return StyleProfilePayload{}
	}
	return *p
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		if m.Role == "assistant" {
			out = append(out, openai.AssistantMessage(m.Content))
			continue
		}
		out = append(out, openai.UserMessage(m.Content))
	}
	return out
}

func styleChatResponseSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"assistant_message": map[string]any{"type": "string"},
			"ready":             map[string]any{"type": "boolean"},
			"profile": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"perception":      nullableString,
					"styles":          nullableString,
					"colorsPreferred": nullableString,
					"colorsAvoid":     nullableString,
					"occasions":       nullableString,
					"formality": map[string]any{
						"type": []string{"string", "null"},
						"enum": []any{domain.FormalityLow, domain.FormalityMedium, domain.FormalityHigh, nil},
					},
					"silhouettes": nullableString,
					"materials":   nullableString,
					"avoidPieces": nullableString,
				},
				"required": []string{
					"perception", "styles", "colorsPreferred", "colorsAvoid",
					"occasions", "formality", "silhouettes", "materials", "avoidPieces",
				},
			},
		},
		"required": []string{"assistant_message", "ready", "profile"},
	}
}
