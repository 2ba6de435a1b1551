package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"storyforge/models"
	"storyforge/prompts"
	"storyforge/tools"
)

// maxToolTurns bounds the tool-calling loop. A well-behaved trace settles in
// four turns (historia, personajes, contenedor, final text); the bound only
// stops a model that keeps calling tools forever.
const maxToolTurns = 16

// MalformedOutputError is returned when the model's final turn is neither the
// assembled container nor parseable JSON. Raw carries the original text so
// the caller can display it; this failure is not fatal to the caller.
type MalformedOutputError struct {
	Raw string
}

func (e *MalformedOutputError) Error() string {
	return "model returned unstructured output"
}

// Orchestrator turns one free-text message into a ContenedorHistoria by
// driving a single conversational turn of tool calls against the model.
// Runs are independent; the orchestrator holds no per-run state.
type Orchestrator struct {
	llm   LLM
	tools *tools.Toolset
	log   zerolog.Logger
}

func NewOrchestrator(llm LLM, toolset *tools.Toolset, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		llm:   llm,
		tools: toolset,
		log:   logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Run executes the pipeline: extract story fields, build the story, build at
// least two characters against its story_id, assemble the container, return
// it. Any tool failure aborts the run; there are no retries and no timeout
// beyond what ctx carries.
func (o *Orchestrator) Run(ctx context.Context, message string) (*models.ContenedorHistoria, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompts.OrchestratorPolicy, genai.RoleUser),
		Tools:             o.tools.Declarations(),
	}

	history := []*genai.Content{genai.NewContentFromText(message, genai.RoleUser)}

	// The container built by crear_contenedor_historia is captured here so
	// the typed value wins over whatever the model echoes back as text.
	var assembled *models.ContenedorHistoria

	for turn := 0; turn < maxToolTurns; turn++ {
		resp, err := o.llm.GenerateContent(ctx, history, config)
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, &MalformedOutputError{}
		}

		content := resp.Candidates[0].Content
		history = append(history, content)

		calls := functionCalls(content)
		if len(calls) == 0 {
			return o.finalize(resp.Text(), assembled)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			o.log.Debug().Str("tool", call.Name).Int("turn", turn).Msg("executing tool call")

			value, err := o.tools.Execute(ctx, call.Name, call.Args)
			if err != nil {
				return nil, fmt.Errorf("tool %s: %w", call.Name, err)
			}
			if contenedor, ok := value.(*models.ContenedorHistoria); ok {
				assembled = contenedor
			}

			payload, err := toResponseMap(value)
			if err != nil {
				return nil, fmt.Errorf("tool %s: encode result: %w", call.Name, err)
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, payload))
		}
		history = append(history, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	return nil, fmt.Errorf("tool loop did not settle after %d turns", maxToolTurns)
}

// finalize picks the run's result. The container captured from the assembly
// tool is authoritative; the model's closing text is only parsed when the
// assembly tool never ran.
func (o *Orchestrator) finalize(text string, assembled *models.ContenedorHistoria) (*models.ContenedorHistoria, error) {
	if assembled != nil {
		return assembled, nil
	}

	cleaned := stripCodeFences(text)
	var contenedor models.ContenedorHistoria
	if err := json.Unmarshal([]byte(cleaned), &contenedor); err != nil || contenedor.Historia.StoryID == "" {
		o.log.Warn().Msg("model output is not a story container")
		return nil, &MalformedOutputError{Raw: text}
	}
	if contenedor.Personajes == nil {
		contenedor.Personajes = []models.Personaje{}
	}
	return &contenedor, nil
}

func functionCalls(content *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range content.Parts {
		if part != nil && part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

// toResponseMap converts a constructed record into the generic mapping the
// function-response part requires.
func toResponseMap(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
