package agent

// Escalation reasons attached to Escalate responses.
const (
	ReasonSensitiveTopic  = "sensitive-topic"
	ReasonNoKnowledgeBase = "no-knowledge-base"
	ReasonLowConfidence   = "low-confidence-match"
)

// Answer sources recorded in the conversation.
const (
	SourceGeneralKB = "general-kb"
	SourceSeniorKB  = "senior-kb"
	SourceModel     = "model"
	SourceDeferral  = "deferral"
)

// Kind discriminates the two response variants.
type Kind int

const (
	KindAnswer Kind = iota
	KindEscalate
)

// Response is the outcome of a responder handling a query. It is either
// an answer (Text and Source set) or an escalation (Reason set); the
// two never mix.
type Response struct {
	Kind   Kind
	Text   string
	Reason string
	Source string
	Score  int
}

// Answer builds an answer response.
func Answer(text, source string, score int) Response {
	return Response{Kind: KindAnswer, Text: text, Source: source, Score: score}
}

// Escalate builds an escalation response.
func Escalate(reason string) Response {
	return Response{Kind: KindEscalate, Reason: reason}
}
