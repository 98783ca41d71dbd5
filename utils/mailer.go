package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer sends plain-text account mails.
type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for ses: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body:    &types.Body{Text: &types.Content{Data: aws.String(body)}},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func MFAEmail(code string) (subject, body string) {
	return "Your verification code",
		fmt.Sprintf("Your verification code is: %s\n\nUse this to complete your login.", code)
}

func ResetEmail(code string) (subject, body string) {
	return "Password reset code",
		fmt.Sprintf("Your password reset code is: %s\n\nIt expires in 15 minutes.", code)
}
