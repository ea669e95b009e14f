package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
)

// Tool names exposed to the model.
const (
	ToolFAQLookup       = "faq_lookup"
	ToolRegisterPending = "register_pending_faq"
	ToolInvoiceStatus   = "get_invoice_status"
	ToolEmailAddress    = "get_email_address"
	ToolSendEmail       = "send_email"
	ToolTextFromLink    = "get_text_from_link"
	ToolLiveTV          = "get_live_tv_arte"
)

type toolArgs map[string]any

func (a toolArgs) str(key string) (string, error) {
	raw, ok := a[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	value, ok := raw.(string)
	if !ok {
		value = fmt.Sprint(raw)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("argument %q cannot be empty", key)
	}
	return value, nil
}

type toolFunc func(ctx context.Context, args toolArgs, turn *turnState) (string, error)

// turnState collects tool observations shared by concurrent calls within a turn.
// Rounds are counted from 1 so the zero value means "never".
type turnState struct {
	mu      sync.Mutex
	round   int
	outcome turnOutcome
}

func (t *turnState) startRound(round int) {
	t.mu.Lock()
	t.round = round
	t.mu.Unlock()
}

func (t *turnState) recordLookup(found bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcome.lookups++
	if found {
		t.outcome.found++
		return
	}
	t.outcome.lastMissRound = t.round
}

func (t *turnState) recordOther() {
	t.mu.Lock()
	t.outcome.lastOtherRound = t.round
	t.mu.Unlock()
}

func (t *turnState) recordRegistration() {
	t.mu.Lock()
	t.outcome.registered = true
	t.mu.Unlock()
}

func (t *turnState) snapshot() turnOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outcome
}

type toolbox struct {
	defs     []chatgpt.Tool
	handlers map[string]toolFunc
}

func (s *service) newToolbox() *toolbox {
	tb := &toolbox{handlers: make(map[string]toolFunc)}
	tb.add(ToolFAQLookup, "Look up a question in the FAQ knowledge base. Returns found and, when found, the answer text.",
		objectSchema(map[string]string{"question": "The user's question, verbatim."}), s.toolLookup)
	tb.add(ToolRegisterPending, "Register a question as pending review by an administrator.",
		objectSchema(map[string]string{"question": "The question to register."}), s.toolRegister)
	tb.add(ToolInvoiceStatus, "Get the payment status of an invoice.",
		objectSchema(map[string]string{"invoice_id": "The invoice identifier."}), s.toolInvoice)
	tb.add(ToolEmailAddress, "Get the email address of a person by name.",
		objectSchema(map[string]string{"name": "The person's name."}), s.toolEmailAddress)
	tb.add(ToolSendEmail, "Send an email to a person.",
		objectSchema(map[string]string{
			"recipient_name": "Name used in the greeting.",
			"email":          "Recipient email address.",
			"text":           "Body of the email.",
		}), s.toolSendEmail)
	tb.add(ToolTextFromLink, "Fetch the readable text of a web page.",
		objectSchema(map[string]string{"url": "Absolute http(s) URL."}), s.toolTextFromLink)
	tb.add(ToolLiveTV, "Get the title and description of the program currently live on ARTE.",
		objectSchema(nil), s.toolLiveTV)
	return tb
}

func (tb *toolbox) add(name, description string, params map[string]any, fn toolFunc) {
	tb.defs = append(tb.defs, chatgpt.Tool{
		Type: "function",
		Function: chatgpt.ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	})
	tb.handlers[name] = fn
}

func objectSchema(props map[string]string) map[string]any {
	properties := make(map[string]any, len(props))
	required := make([]string, 0, len(props))
	for name, desc := range props {
		properties[name] = map[string]any{"type": "string", "description": desc}
		required = append(required, name)
	}
	sort.Strings(required)
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// executeAll runs one round of tool calls concurrently. Results keep the order of calls;
// failures become "error: ..." content for the model instead of failing the turn.
func (s *service) executeAll(ctx context.Context, calls []chatgpt.ToolCall, turn *turnState) []string {
	results := make([]string, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ToolConcurrency)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = s.execute(gctx, call, turn)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *service) execute(ctx context.Context, call chatgpt.ToolCall, turn *turnState) string {
	name := call.Function.Name
	fn, ok := s.tools.handlers[name]
	if !ok {
		return "error: unknown tool " + name
	}
	args := toolArgs{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return "error: invalid arguments: " + err.Error()
		}
	}
	if name != ToolFAQLookup && name != ToolRegisterPending {
		turn.recordOther()
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ToolTimeout)
	defer cancel()
	out, err := fn(callCtx, args, turn)
	if err != nil {
		s.logger.Warn("tool call failed", "tool", name, "error", err)
		return "error: " + err.Error()
	}
	s.logger.Debug("tool call finished", "tool", name)
	return out
}

func (s *service) toolLookup(ctx context.Context, args toolArgs, turn *turnState) (string, error) {
	question, err := args.str("question")
	if err != nil {
		return "", err
	}
	res, err := s.knowledge.Lookup(ctx, question)
	if err != nil {
		return "", err
	}
	turn.recordLookup(res.Found)
	payload := map[string]any{"found": res.Found}
	if res.Found {
		payload["answer"] = res.Answer
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (s *service) toolRegister(ctx context.Context, args toolArgs, turn *turnState) (string, error) {
	question, err := args.str("question")
	if err != nil {
		return "", err
	}
	if _, err := s.knowledge.RegisterPending(ctx, question, faq.CreatedByUser); err != nil {
		return "", err
	}
	turn.recordRegistration()
	return faq.RegisteredMessage, nil
}

func (s *service) toolInvoice(ctx context.Context, args toolArgs, _ *turnState) (string, error) {
	id, err := args.str("invoice_id")
	if err != nil {
		return "", err
	}
	if s.invoices == nil {
		return "", errors.New("invoice service unavailable")
	}
	status, err := s.invoices.Status(ctx, id)
	if err != nil {
		return "", err
	}
	return InvoiceStatusText(id, status), nil
}

// InvoiceStatusText renders an invoice status for users and the model alike.
func InvoiceStatusText(invoiceID, status string) string {
	return fmt.Sprintf("The status of invoice %s is: %s.", invoiceID, status)
}

func (s *service) toolEmailAddress(_ context.Context, args toolArgs, _ *turnState) (string, error) {
	name, err := args.str("name")
	if err != nil {
		return "", err
	}
	if s.directory == nil {
		return "", errors.New("directory unavailable")
	}
	address := s.directory.Lookup(name)
	if address == "" {
		return "", fmt.Errorf("no address for %s", name)
	}
	return address, nil
}

func (s *service) toolSendEmail(ctx context.Context, args toolArgs, _ *turnState) (string, error) {
	name, err := args.str("recipient_name")
	if err != nil {
		return "", err
	}
	address, err := args.str("email")
	if err != nil {
		return "", err
	}
	text, err := args.str("text")
	if err != nil {
		return "", err
	}
	if s.mailer == nil {
		return "", errors.New("mailer unavailable")
	}
	if err := s.mailer.Send(ctx, name, address, text); err != nil {
		return "", err
	}
	return "Email sent to " + address, nil
}

func (s *service) toolTextFromLink(ctx context.Context, args toolArgs, _ *turnState) (string, error) {
	url, err := args.str("url")
	if err != nil {
		return "", err
	}
	if s.web == nil {
		return "", errors.New("web fetcher unavailable")
	}
	return s.web.FetchText(ctx, url)
}

func (s *service) toolLiveTV(ctx context.Context, _ toolArgs, _ *turnState) (string, error) {
	if s.liveTV == nil {
		return "", errors.New("live tv unavailable")
	}
	program, err := s.liveTV.Current(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Title: %s\nDescription: %s", program.Title, program.Description), nil
}
