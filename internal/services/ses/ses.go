// Package ses sends grant digest emails via AWS SES.
package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appConfig "auctus-engine/internal/config"
	"auctus-engine/internal/models"
	"auctus-engine/internal/services/scoring"
	"auctus-engine/internal/utils"
)

// ErrNoRecipient is returned when a digest has no email address to go to.
var ErrNoRecipient = errors.New("business has no email address")

// API is the part of the SES client the service uses.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service handles SES email operations
type Service struct {
	client    API
	fromEmail string
	now       func() time.Time
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
}

// DigestParams contains data for one grant digest email
type DigestParams struct {
	BusinessID   string
	BusinessName string
	Email        string
	TopGrants    []GrantInfo
	Deadlines    []DeadlineInfo
	DashboardURL string
}

// GrantInfo is one grant line in a digest.
type GrantInfo struct {
	Name            string
	Provider        string
	Amount          string
	MatchPercentage int
	ApplicationURL  string
}

// DeadlineInfo is one approaching deadline in a digest.
type DeadlineInfo struct {
	Name     string
	Deadline string
	DaysLeft int
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(ses.NewFromConfig(cfg), appCfg.SESSenderEmail), nil
}

// NewWithClient creates a service over an existing client.
func NewWithClient(client API, fromEmail string) *Service {
	return &Service{
		client:    client,
		fromEmail: fromEmail,
		now:       time.Now,
	}
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    s.now(),
	}, nil
}

// SendDigest renders and sends one grant digest.
func (s *Service) SendDigest(ctx context.Context, params DigestParams) (*SendEmailResult, error) {
	if params.Email == "" {
		return nil, fmt.Errorf("%s: %w", params.BusinessID, ErrNoRecipient)
	}

	htmlBody, err := RenderDigestHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	return s.SendEmail(ctx, EmailParams{
		To:       params.Email,
		Subject:  DigestSubject(params),
		HTMLBody: htmlBody,
		TextBody: RenderDigestText(params),
	})
}

// SendDigests sends every digest and collects the failures.
func (s *Service) SendDigests(ctx context.Context, digests []DigestParams) ([]SendEmailResult, []error) {
	results := make([]SendEmailResult, 0, len(digests))
	var errs []error

	for _, digest := range digests {
		result, err := s.SendDigest(ctx, digest)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to send to %s: %w", digest.BusinessID, err))
			continue
		}
		results = append(results, *result)
	}

	utils.GetLogger().Info("Digest batch sent",
		zap.Int("total", len(digests)),
		zap.Int("success", len(results)),
		zap.Int("failed", len(errs)),
	)

	return results, errs
}

var amountPrinter = message.NewPrinter(language.English)

// BuildDigestParams selects the grants worth mailing: those above minScore, at most limit.
// limit <= 0 keeps every qualifying grant.
func BuildDigestParams(business *models.Business, grants []models.ScoredGrant, deadlines []scoring.UpcomingGrant, dashboardURL string, minScore, limit int) DigestParams {
	if limit <= 0 {
		limit = len(grants)
	}
	top := make([]GrantInfo, 0, limit)
	for _, g := range grants {
		if len(top) == limit {
			break
		}
		if g.MatchPercentage <= minScore {
			continue
		}
		top = append(top, GrantInfo{
			Name:            g.Name,
			Provider:        g.Provider,
			Amount:          amountPrinter.Sprintf("$%d", g.Amount),
			MatchPercentage: g.MatchPercentage,
			ApplicationURL:  g.ApplicationURL,
		})
	}

	closing := make([]DeadlineInfo, 0, len(deadlines))
	for _, d := range deadlines {
		closing = append(closing, DeadlineInfo{
			Name:     d.Name,
			Deadline: d.Deadline,
			DaysLeft: d.DaysLeft,
		})
	}

	return DigestParams{
		BusinessID:   business.ID,
		BusinessName: business.Name,
		Email:        business.Email,
		TopGrants:    top,
		Deadlines:    closing,
		DashboardURL: dashboardURL,
	}
}

// DigestSubject returns the subject line of a digest.
func DigestSubject(params DigestParams) string {
	if len(params.TopGrants) == 1 {
		return fmt.Sprintf("%s: 1 grant matches your business", params.BusinessName)
	}
	return fmt.Sprintf("%s: %d grants match your business", params.BusinessName, len(params.TopGrants))
}

var digestTemplate = template.Must(template.New("grant_digest").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f4c81; color: white; padding: 24px; border-radius: 10px 10px 0 0; text-align: center; }
        .content { background: #f9f9f9; padding: 24px; border-radius: 0 0 10px 10px; }
        .grant-card { background: white; border-radius: 8px; padding: 16px; margin: 12px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .score-badge { display: inline-block; background: #28a745; color: white; padding: 4px 10px; border-radius: 20px; font-weight: bold; }
        .deadline { color: #b45309; }
        .cta-button { display: inline-block; background: #0f4c81; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Your grant matches</h1>
        <p>{{.BusinessName}}</p>
    </div>
    <div class="content">
        {{if .TopGrants}}
        <p>These grants fit your business profile:</p>
        {{range .TopGrants}}
        <div class="grant-card">
            <h3>{{.Name}}</h3>
            <p>{{.Provider}} &middot; {{.Amount}} <span class="score-badge">{{.MatchPercentage}}% match</span></p>
            {{if .ApplicationURL}}<a href="{{.ApplicationURL}}">Apply</a>{{end}}
        </div>
        {{end}}
        {{else}}
        <p>No grants scored above the match threshold this time.</p>
        {{end}}
        {{if .Deadlines}}
        <h2>Closing soon</h2>
        <ul>
        {{range .Deadlines}}
            <li class="deadline">{{.Name}}: {{.DaysLeft}} days left ({{.Deadline}})</li>
        {{end}}
        </ul>
        {{end}}
        {{if .DashboardURL}}
        <p style="text-align: center;"><a href="{{.DashboardURL}}" class="cta-button">Open your dashboard</a></p>
        {{end}}
    </div>
</body>
</html>`))

// RenderDigestHTML renders the HTML body of a digest.
func RenderDigestHTML(params DigestParams) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderDigestText renders the plain text body of a digest.
func RenderDigestText(params DigestParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", params.BusinessName)
	if len(params.TopGrants) == 0 {
		b.WriteString("No grants scored above the match threshold this time.\n\n")
	} else {
		b.WriteString("These grants fit your business profile:\n\n")
		for i, g := range params.TopGrants {
			fmt.Fprintf(&b, "%d. %s by %s\n", i+1, g.Name, g.Provider)
			fmt.Fprintf(&b, "   Amount: %s\n", g.Amount)
			fmt.Fprintf(&b, "   Match: %d%%\n", g.MatchPercentage)
			if g.ApplicationURL != "" {
				fmt.Fprintf(&b, "   Apply: %s\n", g.ApplicationURL)
			}
			b.WriteString("\n")
		}
	}

	if len(params.Deadlines) > 0 {
		b.WriteString("Closing soon:\n")
		for _, d := range params.Deadlines {
			fmt.Fprintf(&b, "- %s: %d days left (%s)\n", d.Name, d.DaysLeft, d.Deadline)
		}
		b.WriteString("\n")
	}

	if params.DashboardURL != "" {
		fmt.Fprintf(&b, "Open your dashboard: %s\n\n", params.DashboardURL)
	}

	b.WriteString("The Auctus team\n")
	return b.String()
}
