// Package notify delivers post-submission messages: the applicant's
// confirmation email, the principal's copy carrying the merged
// application PDF, and an optional SMS.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"recruitment-portal/internal/common/config"
	"recruitment-portal/internal/common/errors"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
	SendRawEmail(ctx context.Context, input *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error)
}

type SNSService interface {
	PublishSMS(ctx context.Context, phone, message string) (string, error)
}

type Notifier struct {
	cfg       config.IntegrationConfig
	principal string
	ses       SESService
	sns       SNSService
	logger    logger.Logger
}

func New(cfg config.IntegrationConfig, principalEmail string, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		principal: principalEmail,
		ses:       sesClient,
		sns:       snsClient,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// AttachmentFileName derives the attachment name from the applicant's
// name, e.g. "Asha Verma" becomes "Asha_Verma_Complete_App.pdf".
func AttachmentFileName(applicantName string) string {
	name := strings.TrimSpace(applicantName)
	if name == "" {
		name = "Applicant"
	}
	return strings.ReplaceAll(name, " ", "_") + "_Complete_App.pdf"
}

// SendApplicantConfirmation emails the applicant a plain confirmation
// without the document attached.
func (n *Notifier) SendApplicantConfirmation(ctx context.Context, rec *models.ApplicationRecord) error {
	if !n.cfg.AWS.SES.Enabled {
		n.logger.Info("email disabled, skipping applicant confirmation", nil)
		return nil
	}

	to := rec.Value("email")
	subject := fmt.Sprintf("Application %s received", rec.ApplicationNo)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour application for the post of %s has been received.\nYour application number is %s. Please quote it in all correspondence.\n\nThis is an automated message.",
		rec.Value("name"), rec.Value("postAppliedFor"), rec.ApplicationNo)

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.AWS.SES.FromEmail),
	})
	if err != nil {
		return errors.NewEmailSendFailedError(to, err)
	}

	n.logger.Info("applicant confirmation sent", map[string]interface{}{
		"applicationNo": rec.ApplicationNo,
		"to":            to,
	})
	return nil
}

// SendPrincipalCopy emails the merged application document to the
// principal's office.
func (n *Notifier) SendPrincipalCopy(ctx context.Context, rec *models.ApplicationRecord, document []byte) error {
	if !n.cfg.AWS.SES.Enabled {
		n.logger.Info("email disabled, skipping principal copy", nil)
		return nil
	}
	if n.principal == "" {
		n.logger.Warn("principal email not configured, skipping copy", nil)
		return nil
	}

	subject := fmt.Sprintf("Application %s - %s (%s)",
		rec.ApplicationNo, rec.Value("name"), rec.Value("postAppliedFor"))
	body := fmt.Sprintf(
		"Application %s submitted by %s for the post of %s.\nThe complete application document is attached.",
		rec.ApplicationNo, rec.Value("name"), rec.Value("postAppliedFor"))

	raw := buildRawMessage(n.cfg.AWS.SES.FromEmail, n.principal, subject, body,
		AttachmentFileName(rec.Value("name")), document)

	_, err := n.ses.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: raw},
		Source:       aws.String(n.cfg.AWS.SES.FromEmail),
		Destinations: []string{n.principal},
	})
	if err != nil {
		return errors.NewEmailSendFailedError(n.principal, err)
	}

	n.logger.Info("principal copy sent", map[string]interface{}{
		"applicationNo": rec.ApplicationNo,
		"to":            n.principal,
		"documentBytes": len(document),
	})
	return nil
}

// SendSMS sends a short confirmation text when SNS is enabled and the
// applicant provided a phone number.
func (n *Notifier) SendSMS(ctx context.Context, rec *models.ApplicationRecord) error {
	if !n.cfg.AWS.SNS.Enabled || n.sns == nil {
		return nil
	}
	phone := rec.Value("contactNo1")
	if phone == "" {
		return nil
	}

	message := fmt.Sprintf("Your application %s has been received.", rec.ApplicationNo)
	messageID, err := n.sns.PublishSMS(ctx, phone, message)
	if err != nil {
		n.logger.Error("SMS send failed", map[string]interface{}{
			"error": err,
			"phone": phone,
		})
		return err
	}
	n.logger.Info("confirmation SMS sent", map[string]interface{}{
		"applicationNo": rec.ApplicationNo,
		"messageId":     messageID,
	})
	return nil
}

const mimeBoundary = "==application-document-boundary=="

// buildRawMessage assembles a multipart/mixed MIME message with a text
// body and a single PDF attachment, matching what SES expects for
// SendRawEmail.
func buildRawMessage(from, to, subject, body, fileName string, attachment []byte) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=\"%s\"\r\n", mimeBoundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: application/pdf\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=\"%s\"\r\n", fileName)
	buf.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString(attachment)
	// SES rejects lines over 1000 characters, wrap at 76.
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes()
}
