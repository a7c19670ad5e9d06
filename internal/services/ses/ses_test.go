package ses_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
	"auctus-engine/internal/services/scoring"
	sesservice "auctus-engine/internal/services/ses"
)

type recordingClient struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (c *recordingClient) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.inputs = append(c.inputs, params)
	return &ses.SendEmailOutput{MessageId: aws.String("msg-" + params.Destination.ToAddresses[0])}, nil
}

// mockDigest builds digest params with optional overrides.
func mockDigest(overrides map[string]interface{}) sesservice.DigestParams {
	params := sesservice.DigestParams{
		BusinessID:   "biz-001",
		BusinessName: "Maritime Roasters",
		Email:        "hello@maritimeroasters.example.ca",
		TopGrants: []sesservice.GrantInfo{
			{Name: "NB Small Business Growth Fund", Provider: "Opportunities New Brunswick", Amount: "$25,000", MatchPercentage: 100, ApplicationURL: "https://example.ca/apply"},
		},
		Deadlines: []sesservice.DeadlineInfo{
			{Name: "Startup Launch Grant", Deadline: "2025-11-20", DaysLeft: 10},
		},
		DashboardURL: "http://localhost:3000/dashboard",
	}

	for key, value := range overrides {
		switch key {
		case "email":
			params.Email = value.(string)
		case "business_id":
			params.BusinessID = value.(string)
		case "top_grants":
			params.TopGrants = value.([]sesservice.GrantInfo)
		case "deadlines":
			params.Deadlines = value.([]sesservice.DeadlineInfo)
		case "dashboard_url":
			params.DashboardURL = value.(string)
		}
	}

	return params
}

func TestBuildDigestParams(t *testing.T) {
	snap, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	scorer := scoring.NewScorer(snap)
	now := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

	business := snap.BusinessByID("biz-001")
	params := sesservice.BuildDigestParams(
		business,
		scorer.MatchedGrants("biz-001"),
		scorer.UpcomingDeadlines(now, 14),
		"http://localhost:3000/dashboard",
		60,
		3,
	)

	assert.Equal(t, "biz-001", params.BusinessID)
	assert.Equal(t, "hello@maritimeroasters.example.ca", params.Email)
	require.Len(t, params.TopGrants, 3)
	assert.Equal(t, "NB Small Business Growth Fund", params.TopGrants[0].Name)
	assert.Equal(t, "$25,000", params.TopGrants[0].Amount)
	assert.Equal(t, 100, params.TopGrants[0].MatchPercentage)

	require.Len(t, params.Deadlines, 1)
	assert.Equal(t, 10, params.Deadlines[0].DaysLeft)
}

func TestBuildDigestParams_Threshold(t *testing.T) {
	business := &models.Business{ID: "b1", Name: "Solo"}
	grants := []models.ScoredGrant{
		{Grant: models.Grant{ID: "g1", Name: "High", Amount: 1500}, MatchPercentage: 90},
		{Grant: models.Grant{ID: "g2", Name: "Exact", Amount: 1500}, MatchPercentage: 60},
		{Grant: models.Grant{ID: "g3", Name: "Low", Amount: 1500}, MatchPercentage: 40},
	}

	params := sesservice.BuildDigestParams(business, grants, nil, "", 60, 0)
	require.Len(t, params.TopGrants, 1)
	assert.Equal(t, "High", params.TopGrants[0].Name)
	assert.Equal(t, "$1,500", params.TopGrants[0].Amount)
	assert.Empty(t, params.Deadlines)
}

func TestRenderDigest(t *testing.T) {
	params := mockDigest(nil)

	html, err := sesservice.RenderDigestHTML(params)
	require.NoError(t, err)
	assert.Contains(t, html, "NB Small Business Growth Fund")
	assert.Contains(t, html, "100% match")
	assert.Contains(t, html, "Startup Launch Grant: 10 days left")
	assert.Contains(t, html, `href="http://localhost:3000/dashboard"`)

	text := sesservice.RenderDigestText(params)
	assert.Contains(t, text, "Hi Maritime Roasters,")
	assert.Contains(t, text, "1. NB Small Business Growth Fund by Opportunities New Brunswick")
	assert.Contains(t, text, "   Amount: $25,000")
	assert.Contains(t, text, "- Startup Launch Grant: 10 days left (2025-11-20)")

	assert.Equal(t, "Maritime Roasters: 1 grant matches your business", sesservice.DigestSubject(params))
}

func TestRenderDigest_EscapesHTML(t *testing.T) {
	params := mockDigest(map[string]interface{}{
		"top_grants": []sesservice.GrantInfo{{Name: "<script>alert(1)</script>", MatchPercentage: 80}},
	})

	html, err := sesservice.RenderDigestHTML(params)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderDigest_NoGrants(t *testing.T) {
	params := mockDigest(map[string]interface{}{
		"top_grants": []sesservice.GrantInfo{},
		"deadlines":  []sesservice.DeadlineInfo{},
	})

	assert.Contains(t, sesservice.RenderDigestText(params), "No grants scored above the match threshold")
	assert.Equal(t, "Maritime Roasters: 0 grants match your business", sesservice.DigestSubject(params))
}

func TestSendDigests(t *testing.T) {
	client := &recordingClient{}
	svc := sesservice.NewWithClient(client, "digest@auctus.example.ca")

	results, errs := svc.SendDigests(context.Background(), []sesservice.DigestParams{
		mockDigest(nil),
		mockDigest(map[string]interface{}{"email": "", "business_id": "biz-003"}),
	})

	require.Len(t, results, 1)
	assert.Equal(t, "msg-hello@maritimeroasters.example.ca", results[0].MessageID)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], sesservice.ErrNoRecipient)

	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "digest@auctus.example.ca", aws.ToString(input.Source))
	assert.NotNil(t, input.Message.Body.Html)
	assert.NotNil(t, input.Message.Body.Text)
}

func TestSendEmail_ClientError(t *testing.T) {
	svc := sesservice.NewWithClient(&recordingClient{err: errors.New("quota exceeded")}, "digest@auctus.example.ca")

	_, err := svc.SendDigest(context.Background(), mockDigest(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
