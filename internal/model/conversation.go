package model

// Speaker labels a transcript turn.
type Speaker string

const (
	SpeakerCustomer Speaker = "customer"
	SpeakerGeneral  Speaker = "general-agent"
	SpeakerSenior   Speaker = "senior-agent"
)

// Turn is one utterance in a conversation transcript.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Conversation is the full record of a single query run. It is built by
// the orchestrator and discarded once returned to the caller; nothing is
// persisted between runs.
type Conversation struct {
	// ID uniquely identifies this run
	ID string `json:"id"`

	// Query is the original customer query, verbatim
	Query string `json:"query"`

	// Turns is the ordered transcript
	Turns []Turn `json:"turns"`

	// Escalated reports whether the senior responder was invoked
	Escalated bool `json:"escalated"`

	// Reason is the escalation reason when Escalated is true
	Reason string `json:"escalation_reason,omitempty"`

	// FinalAnswer is the text delivered to the customer
	FinalAnswer string `json:"final_answer"`

	// AnswerSource records where the final answer came from
	// (general-kb, senior-kb, model, deferral)
	AnswerSource string `json:"answer_source"`
}
