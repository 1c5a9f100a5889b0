package noop

import (
	"context"
	"log"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs summaries to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendImportSummary(_ context.Context, toEmail string, result *domain.ImportResult) error {
	log.Printf("[NOOP EMAIL] Import summary for %s: file=%s imported=%d failed=%d",
		toEmail, result.FileName, result.Imported, result.Failed)
	return nil
}
