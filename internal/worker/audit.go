// Package worker processes expense change events from the message queue
// into an append-only CSV audit log.
package worker

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ledger/internal/amqp"
	applog "ledger/internal/log"
)

// AuditWorker appends one CSV line per expense event. The log records what
// happened and when; it is never read back by the application.
type AuditWorker struct {
	mu     sync.Mutex
	path   string
	logger *applog.Logger
}

func NewAuditWorker(path string, logger *applog.Logger) (*AuditWorker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit log directory: %w", err)
	}
	return &AuditWorker{
		path:   path,
		logger: logger.WithComponent(applog.ComponentWorker),
	}, nil
}

// HandleEvent appends the event to the audit log. Returning an error makes
// the consumer requeue the delivery, so transient write failures retry.
func (w *AuditWorker) HandleEvent(event *amqp.ExpenseEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	record := []string{
		event.Timestamp.UTC().Format(time.RFC3339),
		event.Action,
		event.ID,
		"", // category
		"", // amount cents
		"", // date
		"", // description
	}
	if event.Expense != nil {
		record[3] = event.Expense.Category
		record[4] = fmt.Sprintf("%d", event.Expense.Amount.Cents)
		record[5] = event.Expense.Date.String()
		record[6] = event.Expense.Description
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush audit record: %w", err)
	}

	w.logger.Info("Recorded expense event",
		applog.FieldAction, event.Action,
		applog.FieldExpenseID, event.ID)
	return nil
}
