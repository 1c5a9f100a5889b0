package port

import (
	"context"

	"taxpoint/internal/domain"
)

// EmailSender delivers operational notifications.
type EmailSender interface {
	SendImportSummary(ctx context.Context, toEmail string, result *domain.ImportResult) error
}
