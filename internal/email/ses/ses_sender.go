package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendImportSummary(ctx context.Context, toEmail string, result *domain.ImportResult) error {
	subject := fmt.Sprintf("Order import finished: %s", result.FileName)
	htmlBody := buildImportSummaryHTML(result)
	textBody := buildImportSummaryText(result)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildImportSummaryText(result *domain.ImportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Import of %s finished.\n\nImported: %d\nFailed: %d\n", result.FileName, result.Imported, result.Failed)
	if len(result.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}

func buildImportSummaryHTML(result *domain.ImportResult) string {
	var errList strings.Builder
	for _, e := range result.Errors {
		fmt.Fprintf(&errList, "<li>%s</li>", e)
	}
	errSection := ""
	if errList.Len() > 0 {
		errSection = fmt.Sprintf(`<h3 style="color: #333;">Errors</h3><ul style="color: #666;">%s</ul>`, errList.String())
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Order import finished</h2>
  <p>File: <strong>%s</strong></p>
  <p>Imported: <strong>%d</strong><br>Failed: <strong>%d</strong></p>
  %s
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Taxpoint - Sales Tax Resolution Service</p>
</body>
</html>`, result.FileName, result.Imported, result.Failed, errSection)
}
