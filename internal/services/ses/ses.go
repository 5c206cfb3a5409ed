// Package ses provides email notification services via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "engage-matching-engine/internal/config"
	"engage-matching-engine/internal/models"
	"engage-matching-engine/internal/utils"
)

// Service handles SES email operations
type Service struct {
	client    *ses.Client
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
}

// MatchDigestParams contains data for a leader's match digest email
type MatchDigestParams struct {
	LeaderName   string
	LeaderEmail  string
	NeedTitle    string
	MatchCount   int
	TopMatches   []MatchLine
	DashboardURL string
}

// MatchLine contains info about a single match for the digest
type MatchLine struct {
	MemberName   string
	MatchedGifts string
	Availability string
	TotalScore   int
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	appCfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	return &Service{
		client:    ses.NewFromConfig(cfg),
		fromEmail: appCfg.SESSenderEmail,
	}, nil
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
		utils.Logger.Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	utils.Logger.Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", *result.MessageId),
	)

	return &SendEmailResult{
		MessageID: *result.MessageId,
		SentAt:    time.Now(),
	}, nil
}

// SendMatchDigest sends a digest of a need's ranked matches to its leader
func (s *Service) SendMatchDigest(ctx context.Context, params MatchDigestParams) (*SendEmailResult, error) {
	htmlBody, err := s.renderMatchDigestHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	textBody := s.renderMatchDigestText(params)

	subject := fmt.Sprintf("%d members are ready to serve: %s", params.MatchCount, params.NeedTitle)

	return s.SendEmail(ctx, EmailParams{
		To:       params.LeaderEmail,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
}

// BuildMatchDigestParams creates digest params from a ranked match list
func BuildMatchDigestParams(leaderName, leaderEmail string, need models.ResolvedNeed, results []models.MatchResult, dashboardURL string) MatchDigestParams {
	topMatches := make([]MatchLine, 0, len(results))

	for _, r := range results {
		name := r.Candidate.FullName
		if name == "" {
			name = r.Candidate.MemberID
		}

		availability := "flexible"
		if len(r.Candidate.AvailabilityWindows) > 0 {
			availability = string(r.Candidate.AvailabilityWindows[0])
		}

		topMatches = append(topMatches, MatchLine{
			MemberName:   name,
			MatchedGifts: strings.Join(r.MatchingTags, ", "),
			Availability: availability,
			TotalScore:   r.TotalScore,
		})
	}

	return MatchDigestParams{
		LeaderName:   leaderName,
		LeaderEmail:  leaderEmail,
		NeedTitle:    need.Title,
		MatchCount:   len(results),
		TopMatches:   topMatches,
		DashboardURL: dashboardURL,
	}
}

// renderMatchDigestHTML renders the HTML email template
func (s *Service) renderMatchDigestHTML(params MatchDigestParams) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2f855a; color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        .match-card { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .match-card h3 { margin: 0 0 10px 0; color: #2f855a; }
        .match-card .detail-label { font-size: 12px; color: #999; }
        .match-card .detail-value { font-weight: bold; color: #333; }
        .score-badge { display: inline-block; background: #2f855a; color: white; padding: 5px 12px; border-radius: 20px; font-weight: bold; }
        .cta-button { display: inline-block; background: #2f855a; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 20px; }
        .footer { text-align: center; margin-top: 30px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Members Ready to Serve</h1>
        <p>Hi {{.LeaderName}}, {{.MatchCount}} members match "{{.NeedTitle}}"</p>
    </div>
    <div class="content">
        <p>Based on gifts and availability, these members are the best fit for this need:</p>

        {{range .TopMatches}}
        <div class="match-card">
            <h3>{{.MemberName}}</h3>
            <div class="detail-label">Matched gifts</div>
            <div class="detail-value">{{.MatchedGifts}}</div>
            <div class="detail-label">Availability</div>
            <div class="detail-value">{{.Availability}}</div>
            <div class="detail-label">Score</div>
            <div class="detail-value"><span class="score-badge">{{.TotalScore}}</span></div>
        </div>
        {{end}}

        {{if .DashboardURL}}
        <div style="text-align: center;">
            <a href="{{.DashboardURL}}" class="cta-button">View All Matches</a>
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>This email was sent by Engage</p>
        <p>You received this because you lead a need awaiting volunteers.</p>
    </div>
</body>
</html>`

	t, err := template.New("match_digest").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderMatchDigestText renders plain text version
func (s *Service) renderMatchDigestText(params MatchDigestParams) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", params.LeaderName))
	buf.WriteString(fmt.Sprintf("%d members match \"%s\".\n\n", params.MatchCount, params.NeedTitle))

	for i, m := range params.TopMatches {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, m.MemberName))
		buf.WriteString(fmt.Sprintf("   Matched gifts: %s\n", m.MatchedGifts))
		buf.WriteString(fmt.Sprintf("   Availability: %s\n", m.Availability))
		buf.WriteString(fmt.Sprintf("   Score: %d\n\n", m.TotalScore))
	}

	if params.DashboardURL != "" {
		buf.WriteString(fmt.Sprintf("View all matches: %s\n\n", params.DashboardURL))
	}

	buf.WriteString("Grace and peace,\nThe Engage Team\n")

	return buf.String()
}
