package invoice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
)

// Statuses an invoice can report.
var Statuses = []string{"Paid", "Overdue", "Unpaid, not due yet"}

// MockChecker returns a random status; there is no real invoicing backend.
type MockChecker struct {
	pick func(n int) int
}

// NewMockChecker constructs the checker.
func NewMockChecker() *MockChecker {
	return &MockChecker{pick: rand.IntN}
}

func (m *MockChecker) Status(_ context.Context, invoiceID string) (string, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return "", fmt.Errorf("invoice id cannot be empty")
	}
	return Statuses[m.pick(len(Statuses))], nil
}

var _ assistant.InvoiceChecker = (*MockChecker)(nil)
