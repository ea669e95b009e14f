package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/faq-agent/pkg/errors"
	"github.com/yanqian/faq-agent/pkg/metrics"
)

type loopResult struct {
	reply    string
	messages []chatgpt.Message
	usage    metrics.TokenUsage
	outcome  turnOutcome
	gaveUp   bool
}

// runLoop calls the model until it answers without tool calls or the round limit is hit.
// Each round's tool results are appended before the next model call.
func (s *service) runLoop(ctx context.Context, history []chatgpt.Message, input string, tr *trace) (loopResult, error) {
	turn := &turnState{}
	user := chatgpt.Message{Role: "user", Content: input}

	messages := make([]chatgpt.Message, 0, len(history)+4)
	messages = append(messages, chatgpt.Message{Role: "system", Content: s.systemPrompt()})
	messages = append(messages, history...)
	messages = append(messages, user)

	res := loopResult{messages: []chatgpt.Message{user}}
	for round := 0; round < s.cfg.MaxToolRounds; round++ {
		msg, usage, err := s.complete(ctx, messages)
		if err != nil {
			return loopResult{}, err
		}
		res.usage.Add(usage)
		assignToolCallIDs(msg.ToolCalls)
		messages = append(messages, msg)
		res.messages = append(res.messages, msg)

		if len(msg.ToolCalls) == 0 {
			tr.add("AI", msg.Content)
			res.reply = strings.TrimSpace(msg.Content)
			res.outcome = turn.snapshot()
			return res, nil
		}

		if strings.TrimSpace(msg.Content) == "" {
			tr.add("AI", "[tool call]")
		} else {
			tr.add("AI", msg.Content)
		}
		turn.startRound(round + 1)
		results := s.executeAll(ctx, msg.ToolCalls, turn)
		for i, call := range msg.ToolCalls {
			toolMsg := chatgpt.Message{
				Role:       "tool",
				Name:       call.Function.Name,
				ToolCallID: call.ID,
				Content:    results[i],
			}
			messages = append(messages, toolMsg)
			res.messages = append(res.messages, toolMsg)
			tr.add(fmt.Sprintf("ToolMessage (%s)", call.Function.Name), results[i])
		}
	}

	s.logger.Warn("tool round limit reached", "rounds", s.cfg.MaxToolRounds)
	giveUp := chatgpt.Message{Role: "assistant", Content: GiveUpReply}
	res.messages = append(res.messages, giveUp)
	tr.add("AI", GiveUpReply)
	res.reply = GiveUpReply
	res.gaveUp = true
	res.outcome = turn.snapshot()
	return res, nil
}

func (s *service) complete(ctx context.Context, messages []chatgpt.Message) (chatgpt.Message, metrics.TokenUsage, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	resp, err := s.client.CreateChatCompletion(callCtx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		Tools:       s.tools.defs,
	})
	if err != nil {
		return chatgpt.Message{}, metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt request failed", err)
	}
	if len(resp.Choices) == 0 {
		return chatgpt.Message{}, metrics.TokenUsage{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt returned no choices", nil)
	}
	msg := resp.Choices[0].Message
	if msg.Role == "" {
		msg.Role = "assistant"
	}
	usage := metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return msg, usage, nil
}

func (s *service) systemPrompt() string {
	if prompt := strings.TrimSpace(s.cfg.SystemPrompt); prompt != "" {
		return prompt
	}
	return defaultSystemPrompt
}

// assignToolCallIDs fills ids some compatible backends omit, so tool replies can be paired.
func assignToolCallIDs(calls []chatgpt.ToolCall) {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = "call_" + uuid.NewString()
		}
		if calls[i].Type == "" {
			calls[i].Type = "function"
		}
	}
}

// trace records the turn's message sequence for observability.
type trace struct {
	entries []TraceEntry
}

func (t *trace) add(actor, text string) {
	t.entries = append(t.entries, TraceEntry{Actor: actor, Text: text})
}

// String renders the trace as [[Actor, text], ...].
func (t *trace) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, e := range t.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%s, %s]", e.Actor, e.Text)
	}
	b.WriteString("]")
	return b.String()
}
