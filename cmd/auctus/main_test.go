package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctus-engine/internal/models"
	"auctus-engine/internal/services/assistant"
	"auctus-engine/internal/services/engine"
)

var fixedNow = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

// run executes the CLI against the embedded catalog and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CATALOG_SOURCE", "embedded")
	t.Setenv("ASSISTANT_TYPING_DELAY_MS", "0")

	a := &app{engineOpts: []engine.Option{engine.WithClock(func() time.Time { return fixedNow })}}
	root := newRootCmd(a)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestGrantsCommand_JSON(t *testing.T) {
	out, err := run(t, "grants", "-b", "biz-001", "--json")
	require.NoError(t, err)

	var grants []models.ScoredGrant
	require.NoError(t, json.Unmarshal([]byte(out), &grants))
	require.Len(t, grants, 6)
	assert.Equal(t, "grant-001", grants[0].ID)
	assert.Equal(t, 100, grants[0].MatchPercentage)
}

func TestGrantsCommand_Table(t *testing.T) {
	out, err := run(t, "grants", "-b", "biz-001", "-c", "Equipment")
	require.NoError(t, err)
	assert.Contains(t, out, "grant-003")
	assert.Contains(t, out, "$100,000")
	assert.NotContains(t, out, "grant-001")
}

func TestGrantsCommand_UnknownBusiness(t *testing.T) {
	_, err := run(t, "grants", "-b", "biz-999")
	assert.EqualError(t, err, `business "biz-999" not found`)

	_, err = run(t, "grants")
	assert.EqualError(t, err, "--business is required")
}

func TestGrantCommand(t *testing.T) {
	out, err := run(t, "grant", "grant-001", "-b", "biz-001")
	require.NoError(t, err)
	assert.Contains(t, out, "location")
	assert.Contains(t, out, "25/25")

	_, err = run(t, "grant", "grant-999", "-b", "biz-001")
	assert.Error(t, err)
}

func TestUpcomingCommand(t *testing.T) {
	out, err := run(t, "upcoming", "--days", "20", "--json")
	require.NoError(t, err)

	var grants []struct {
		ID       string `json:"id"`
		DaysLeft int    `json:"daysLeft"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &grants))
	require.Len(t, grants, 1)
	assert.Equal(t, "grant-006", grants[0].ID)
	assert.Equal(t, 19, grants[0].DaysLeft)

	_, err = run(t, "upcoming", "--days", "0")
	assert.Error(t, err)
}

func TestMatchesCommand(t *testing.T) {
	out, err := run(t, "matches", "-b", "biz-001", "--json")
	require.NoError(t, err)

	var got matchesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 4, got.Tabs.All)
	assert.Len(t, got.Matches, 4)

	_, err = run(t, "matches", "-b", "biz-001", "-t", "enemies")
	assert.Error(t, err)
}

func TestAskCommand(t *testing.T) {
	out, err := run(t, "ask", "-b", "biz-001", "looking", "for", "a", "wholesale", "supplier", "for", "my", "coffee", "shop")
	require.NoError(t, err)
	assert.Contains(t, out, "potential business partners for Maritime Roasters")

	out, err = run(t, "ask", "-b", "biz-001", "-p", "/funding", "--action", "query:deadlines", "--json")
	require.NoError(t, err)

	var got askOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Here are the grants closing soon (next 30 days):", got.Message)
	assert.Equal(t, assistant.IntentDeadline, got.Intent)
}

func TestDashboardCommand(t *testing.T) {
	out, err := run(t, "dashboard", "-b", "biz-001")
	require.NoError(t, err)
	assert.Contains(t, out, "Maritime Roasters")

	_, err = run(t, "dashboard", "-b", "biz-999")
	assert.Error(t, err)
}

func TestDiscoveryCommands(t *testing.T) {
	out, err := run(t, "forum", "--category", "Ask for Help", "--json")
	require.NoError(t, err)
	var threads []models.Thread
	require.NoError(t, json.Unmarshal([]byte(out), &threads))
	assert.Len(t, threads, 2)

	out, err = run(t, "talents", "--skills")
	require.NoError(t, err)
	assert.Contains(t, out, "Welding")

	_, err = run(t, "jobs")
	require.NoError(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
