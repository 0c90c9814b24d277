// Package analysis generates the free-text market flash from a quote
// snapshot. The backend is any OpenAI-compatible chat endpoint; the call is
// opaque and best-effort, and callers pick the substitute text on failure.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"quotedash/internal/quote"
)

// FallbackText is the fixed substitute shown when generation fails. Exported
// so callers substitute it deliberately instead of relying on a caught error.
const FallbackText = "El servicio de análisis de mercado no está disponible momentáneamente."

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Summarizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func New(cfg Config) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Summarizer{client: openai.NewClientWithConfig(clientCfg), model: model, timeout: timeout}
}

// snapshot is the pertinent subset sent upstream, trimmed to keep the
// prompt small.
type snapshot struct {
	Nombre string  `json:"nombre"`
	Compra float64 `json:"compra"`
	Venta  float64 `json:"venta"`
	Casa   string  `json:"casa"`
}

// Summarize asks for a short market flash over the current quotes. The error
// path is explicit: no silent fallback happens here.
func (s *Summarizer) Summarize(ctx context.Context, quotes []quote.Quote) (string, error) {
	if len(quotes) == 0 {
		return "", errors.New("analysis: no quotes to summarize")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(quotes)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("analysis: empty completion")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("analysis: empty completion")
	}
	return text, nil
}

func buildPrompt(quotes []quote.Quote) string {
	relevant := make([]snapshot, 0, len(quotes))
	for _, q := range quotes {
		relevant = append(relevant, snapshot{
			Nombre: q.Name(),
			Compra: q.BuyPrice,
			Venta:  q.SellPrice,
			Casa:   q.InstrumentCode,
		})
	}
	data, _ := json.Marshal(relevant)

	return fmt.Sprintf(`Actúa como un experto economista argentino. Analiza brevemente estos valores actuales del mercado cambiario en Argentina:
%s

Provee un "Flash de Mercado" corto (máximo 80 palabras) en formato texto plano (sin markdown).
Responde a estas preguntas implícitamente:
1. ¿Cómo está la brecha entre el oficial y el blue?
2. ¿Cuál es la recomendación general (comprar/esperar)?

Usa un tono profesional pero directo. No uses listas, usa párrafos.`, data)
}
