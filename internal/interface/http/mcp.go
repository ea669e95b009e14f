package http

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
	"github.com/yanqian/faq-agent/internal/domain/faq"
)

// NewMCPServer exposes the knowledge base tools to MCP clients.
func NewMCPServer(faqSvc faq.Service, invoices assistant.InvoiceChecker) *server.MCPServer {
	s := server.NewMCPServer(
		"faq-agent",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool(assistant.ToolFAQLookup,
			mcp.WithDescription("Search the FAQ knowledge base. Returns the stored answer or reports that the question is not registered."),
			mcp.WithString("question", mcp.Description("The user's question, in any language"), mcp.Required()),
		),
		mcpLookup(faqSvc),
	)
	s.AddTool(
		mcp.NewTool(assistant.ToolRegisterPending,
			mcp.WithDescription("Register a question that is missing from the knowledge base for human review."),
			mcp.WithString("question", mcp.Description("The question to register"), mcp.Required()),
		),
		mcpRegister(faqSvc),
	)
	s.AddTool(
		mcp.NewTool(assistant.ToolInvoiceStatus,
			mcp.WithDescription("Get the payment status of an invoice."),
			mcp.WithString("invoice_id", mcp.Description("The invoice identifier"), mcp.Required()),
		),
		mcpInvoice(invoices),
	)
	return s
}

func mcpLookup(faqSvc faq.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}
		result, err := faqSvc.Lookup(ctx, question)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		if !result.Found {
			return mcpText(assistant.NotFoundMessage), nil
		}
		return mcpText(result.Answer), nil
	}
}

func mcpRegister(faqSvc faq.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}
		if _, err := faqSvc.RegisterPending(ctx, question, faq.CreatedByJouleUser); err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(faq.RegisteredMessage), nil
	}
}

func mcpInvoice(invoices assistant.InvoiceChecker) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("invoice_id")
		if err != nil {
			return mcpError("invoice_id is required"), nil
		}
		status, err := invoices.Status(ctx, id)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(assistant.InvoiceStatusText(id, status)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: msg}},
		IsError: true,
	}
}
