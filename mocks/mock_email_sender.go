package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxpoint/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendImportSummary(ctx context.Context, toEmail string, result *domain.ImportResult) error {
	args := m.Called(ctx, toEmail, result)
	return args.Error(0)
}
