package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/services/engine"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	snap, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	now := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	return engine.New(snap, engine.WithClock(func() time.Time { return now }))
}

func TestBuildDigests_SingleBusiness(t *testing.T) {
	digests, err := buildDigests(newEngine(t), "https://auctus.example", options{
		businessID: "biz-001",
		minScore:   60,
		limit:      3,
		days:       14,
	})
	require.NoError(t, err)
	require.Len(t, digests, 1)

	d := digests[0]
	assert.Equal(t, "Maritime Roasters", d.BusinessName)
	assert.Len(t, d.TopGrants, 3)
	require.Len(t, d.Deadlines, 1)
	assert.Equal(t, 10, d.Deadlines[0].DaysLeft)
}

func TestBuildDigests_UnknownBusiness(t *testing.T) {
	_, err := buildDigests(newEngine(t), "", options{businessID: "biz-999"})
	assert.EqualError(t, err, `business "biz-999" not found`)
}

func TestBuildDigests_SkipsBusinessesWithoutQualifyingGrants(t *testing.T) {
	digests, err := buildDigests(newEngine(t), "", options{minScore: 100, days: 14})
	require.NoError(t, err)
	assert.Empty(t, digests)
}

func TestPrintDigests(t *testing.T) {
	digests, err := buildDigests(newEngine(t), "https://auctus.example", options{businessID: "biz-001", minScore: 60, limit: 1, days: 14})
	require.NoError(t, err)

	var out bytes.Buffer
	printDigests(&out, digests)
	assert.Contains(t, out.String(), "Subject: Maritime Roasters: 1 grant matches your business")
	assert.Contains(t, out.String(), "1 digest(s)")
}
