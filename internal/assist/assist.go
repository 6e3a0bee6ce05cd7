// Package assist suggests slide texts for a job title with a language model.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"vagas-go/internal/selecty"
	"vagas-go/internal/vagas"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("assist is disabled: set assist.api_key")

// Completer sends a prompt and returns the model's text answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type modelCompleter struct {
	model llms.Model
}

func (c modelCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithJSONMode(), llms.WithTemperature(0.7))
}

// NewGeminiCompleter creates a Completer backed by Google Gemini.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (Completer, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return modelCompleter{model: llm}, nil
}

const suggestPrompt = `Generate realistic job posting details for a position titled %q in Brazil.
Return only a JSON object, without markdown, with these string fields:
- "tagline": a short, punchy tagline in Portuguese, uppercase.
- "sector": the industry sector in Portuguese, uppercase, e.g. "SETOR DE TECNOLOGIA".
- "contractType": contract type like CLT, PJ, Estágio.
- "modality": work modality like Presencial, Híbrido, Remoto.
- "location": city and state abbreviation, e.g. "São Paulo, SP".
Keep the tone professional but energetic.`

// Suggestion is the model's answer.
type Suggestion struct {
	Tagline      string `json:"tagline"`
	Sector       string `json:"sector"`
	ContractType string `json:"contractType"`
	Modality     string `json:"modality"`
	Location     string `json:"location"`
}

// Assistant turns model suggestions into slide overrides.
type Assistant struct {
	completer Completer
	logger    vagas.Logger
}

func New(completer Completer, logger vagas.Logger) *Assistant {
	if logger == nil {
		logger = vagas.NewNopLogger()
	}
	return &Assistant{completer: completer, logger: logger}
}

// Suggest asks the model for texts matching title. Empty fields of the
// answer are left unset in the returned overrides.
func (a *Assistant) Suggest(ctx context.Context, title string) (vagas.Overrides, error) {
	if strings.TrimSpace(title) == "" {
		return vagas.Overrides{}, fmt.Errorf("job title is empty")
	}

	answer, err := a.completer.Complete(ctx, fmt.Sprintf(suggestPrompt, title))
	if err != nil {
		return vagas.Overrides{}, fmt.Errorf("asking model: %w", err)
	}

	s, err := ParseSuggestion(answer)
	if err != nil {
		a.logger.Warn("unusable model answer", "title", title, "error", err)
		return vagas.Overrides{}, err
	}
	a.logger.Debug("suggestion received", "title", title, "sector", s.Sector)
	return s.Overrides(), nil
}

// ParseSuggestion decodes a model answer, tolerating markdown code fences.
func ParseSuggestion(answer string) (Suggestion, error) {
	text := strings.TrimSpace(answer)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return Suggestion{}, fmt.Errorf("no JSON object in model answer")
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &s); err != nil {
		return Suggestion{}, fmt.Errorf("decoding model answer: %w", err)
	}
	return s, nil
}

// Overrides maps the suggestion onto slide fields. A suggested tagline is
// a custom tagline.
func (s Suggestion) Overrides() vagas.Overrides {
	var o vagas.Overrides
	if t := strings.TrimSpace(s.Tagline); t != "" {
		o.Tagline = vagas.Ptr(strings.ToUpper(t))
		o.CompanyType = vagas.Ptr(vagas.CompanyCustom)
	}
	if c := strings.TrimSpace(s.Sector); c != "" {
		o.Category = vagas.Ptr(strings.ToUpper(c))
	}
	if c := strings.TrimSpace(s.ContractType); c != "" {
		o.Contract = vagas.Ptr(selecty.NormalizeContract(c))
	}
	if m := strings.TrimSpace(s.Modality); m != "" {
		o.Modality = vagas.Ptr(selecty.NormalizeModality(m))
	}
	if l := strings.TrimSpace(s.Location); l != "" {
		o.Location = vagas.Ptr(slideLocation(l))
	}
	return o
}

// slideLocation rewrites "São Paulo, SP" as "São Paulo-SP".
func slideLocation(l string) string {
	city, state, ok := strings.Cut(l, ",")
	if !ok {
		city, state, ok = strings.Cut(l, " - ")
	}
	if !ok {
		return l
	}
	return strings.TrimSpace(city) + "-" + strings.TrimSpace(state)
}
