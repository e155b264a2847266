package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for language model providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a reply for an escalated customer query
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompleteRequest contains the input for a completion
type CompleteRequest struct {
	// Query is the customer's original query, verbatim
	Query string

	// Reason is the escalation reason from the general responder
	Reason string

	// Prompt is an optional custom prompt (if empty, built from Query/Reason)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompleteResponse contains the model's output
type CompleteResponse struct {
	// Text is the generated reply
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 500,
	}
}

// systemPrompt frames every completion as a senior customer service reply.
const systemPrompt = "You are a senior customer service agent handling queries escalated " +
	"by the general support tier. Respond professionally and empathetically, " +
	"acknowledge the customer's issue, and give a concrete next step."

// BuildPrompt constructs the default prompt for an escalated query.
func BuildPrompt(query, reason string) string {
	if reason == "" {
		reason = "unspecified"
	}
	return fmt.Sprintf(`A customer query was escalated by the general support agent.

Escalation reason: %s

Customer query:
%s

Write the reply that will be sent directly to the customer. Be professional
and empathetic, acknowledge the issue, and give a concrete next step. Do not
mention internal routing or escalation mechanics. Keep it under 120 words.`, reason, query)
}
