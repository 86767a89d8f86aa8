// Package classifier implements the grounded classification agent and
// the label normalizer.
//
// The agent binds a fixed persona and a low-temperature OpenAI chat
// model to the chunked reference corpus. Each Classify call retrieves
// the most relevant guideline chunks for the cell text, renders one
// fixed prompt, and performs exactly one model call. There is no retry
// policy: a transient inference failure propagates to the caller.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clausecheck/internal/vectorstore"
)

var (
	// ErrInvalidConfig indicates invalid agent configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyReply indicates the model returned no choices.
	ErrEmptyReply = errors.New("empty reply from model")
)

// Model is the slice of langchaingo's chat model interface the agent
// needs. *openai.LLM satisfies it; tests substitute a deterministic stub.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Retriever fetches guideline chunks relevant to a query.
// *vectorstore.Store satisfies it.
type Retriever interface {
	Query(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error)
}

// Persona is the agent's fixed role configuration.
type Persona struct {
	Role      string
	Goal      string
	Backstory string
}

// DefaultPersona returns the contract risk assessor persona.
func DefaultPersona() Persona {
	return Persona{
		Role: "Contract Risk Assessor",
		Goal: "Classify contract deals as low or higher risk based on contract guidelines.",
		Backstory: "You are an expert in contract risk assessment with years of experience " +
			"in evaluating contract deals. You have deep knowledge of contract best practices, " +
			"legal requirements, and risk factors. Your job is to analyze descriptive text " +
			"in contracts and determine if they adhere to guidelines and best practices.",
	}
}

// classifyTemplate is the fixed prompt rendered once per cell.
var classifyTemplate = prompts.NewPromptTemplate(
	`{{.backstory}}

Role: {{.role}}
Goal: {{.goal}}

Relevant contract guideline excerpts:

{{.guidelines}}

Analyze the following contract text from the '{{.column}}' field:

"{{.text}}"

Based on your knowledge of contract guidelines and best practices,
determine if this text adheres to guidelines and represents low risk.

Respond with only "Yes" if it adheres to guidelines (low risk),
or "No" if it does not adhere to guidelines (higher risk).`,
	[]string{"backstory", "role", "goal", "guidelines", "column", "text"},
)

// Config holds agent construction parameters. Immutable after New.
type Config struct {
	// Persona is the agent's role configuration. Zero value means
	// DefaultPersona.
	Persona Persona

	// Temperature is the sampling temperature for every call.
	Temperature float64

	// TopK is how many guideline chunks are retrieved per cell.
	TopK int
}

// Agent is a grounded yes/no classifier over a chat model.
type Agent struct {
	llm       Model
	retriever Retriever
	config    Config
	logger    *zap.Logger
}

// New creates an Agent bound to the given model and retriever.
func New(cfg Config, llm Model, retriever Retriever, logger *zap.Logger) (*Agent, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}
	if retriever == nil {
		return nil, fmt.Errorf("%w: retriever is required", ErrInvalidConfig)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidConfig, cfg.TopK)
	}
	if cfg.Persona == (Persona{}) {
		cfg.Persona = DefaultPersona()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		llm:       llm,
		retriever: retriever,
		config:    cfg,
		logger:    logger,
	}, nil
}

// Classify judges whether the given cell text adheres to the contract
// guidelines, returning the model's free-text reply. columnContext is
// the name of the field the text came from.
func (a *Agent) Classify(ctx context.Context, text, columnContext string) (string, error) {
	results, err := a.retriever.Query(ctx, text, a.config.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieving guideline context: %w", err)
	}

	prompt, err := classifyTemplate.Format(map[string]any{
		"backstory":  a.config.Persona.Backstory,
		"role":       a.config.Persona.Role,
		"goal":       a.config.Persona.Goal,
		"guidelines": formatGuidelines(results),
		"column":     columnContext,
		"text":       text,
	})
	if err != nil {
		return "", fmt.Errorf("formatting prompt: %w", err)
	}

	a.logger.Debug("classifying cell",
		zap.String("column", columnContext),
		zap.Int("context_chunks", len(results)),
	)

	resp, err := a.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(a.config.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("classification call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// formatGuidelines joins retrieved chunks, tagging each with its source
// document so the model can weigh provenance.
func formatGuidelines(results []vectorstore.SearchResult) string {
	if len(results) == 0 {
		return "(no guideline excerpts retrieved)"
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		source := r.Metadata["source"]
		if source == "" {
			source = "unknown"
		}
		fmt.Fprintf(&b, "[%s]\n%s", source, r.Content)
	}
	return b.String()
}
