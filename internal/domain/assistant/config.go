package assistant

import "time"

// Config wires runtime knobs for the assistant.
type Config struct {
	Model              string
	Temperature        float32
	SystemPrompt       string
	MaxToolRounds      int
	RequestTimeout     time.Duration
	ToolTimeout        time.Duration
	ToolConcurrency    int
	HistoryTokenBudget int
}

const (
	defaultMaxToolRounds   = 10
	defaultRequestTimeout  = 60 * time.Second
	defaultToolTimeout     = 20 * time.Second
	defaultToolConcurrency = 4
)

func (c Config) withDefaults() Config {
	if c.MaxToolRounds <= 0 {
		c.MaxToolRounds = defaultMaxToolRounds
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = defaultToolTimeout
	}
	if c.ToolConcurrency <= 0 {
		c.ToolConcurrency = defaultToolConcurrency
	}
	return c
}

const defaultSystemPrompt = `You are a corporate FAQ assistant.
For every knowledge or FAQ style question you MUST call the faq_lookup tool before answering. Never answer from your own knowledge.
If faq_lookup returns found=true, reply with the answer text exactly as returned, without any additional commentary.
If faq_lookup returns found=false, reply exactly:
` + NotFoundReply + `
Do not call register_pending_faq unless the user explicitly asks to register a question.
Use the other tools only when the user asks for invoice status, email addresses, sending an email, the text of a web page or the current ARTE live program.
Reply in the user's language.`
