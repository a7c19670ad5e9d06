package catalog_test

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
)

func TestLoadEmbedded(t *testing.T) {
	snap, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	stats := snap.Stats()
	assert.Equal(t, 5, stats.Businesses)
	assert.Equal(t, 6, stats.Grants)
	assert.Equal(t, 5, stats.Threads)
	assert.Equal(t, 4, stats.Replies)
	assert.Equal(t, 4, stats.MatchLists)
	assert.Equal(t, 3, stats.Jobs)
	assert.Equal(t, 3, stats.Talents)
}

func TestEmbeddedCatalog_ReferencesResolve(t *testing.T) {
	snap, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	for _, list := range snap.MatchLists() {
		require.NotNil(t, snap.BusinessByID(list.BusinessID), list.BusinessID)
		for _, m := range list.Matches {
			assert.NotNil(t, snap.BusinessByID(m.PartnerID), m.PartnerID)
		}
	}
	for _, thread := range snap.Threads() {
		assert.NotNil(t, snap.BusinessByID(thread.AuthorID), thread.ID)
	}
	for _, reply := range snap.Replies() {
		assert.NotNil(t, snap.ThreadByID(reply.ThreadID), reply.ID)
	}
	for _, job := range snap.Jobs() {
		assert.NotNil(t, snap.BusinessByID(job.BusinessID), job.ID)
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	snap, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	b := snap.BusinessByID("biz-001")
	require.NotNil(t, b)
	assert.Equal(t, "Maritime Roasters", b.Name)
	assert.Nil(t, snap.BusinessByID("missing"))

	g := snap.GrantByID("grant-003")
	require.NotNil(t, g)
	assert.Equal(t, int64(100000), g.Amount)
	assert.Nil(t, snap.GrantByID(""))

	assert.Len(t, snap.MatchesForBusiness("biz-001"), 2)
	assert.Empty(t, snap.MatchesForBusiness("biz-003"))

	replies := snap.RepliesByThreadID("thread-001")
	require.Len(t, replies, 2)
	assert.Equal(t, "reply-001", replies[0].ID)
	assert.Equal(t, "reply-004", replies[1].ID)
	assert.Empty(t, snap.RepliesByThreadID("thread-002"))

	assert.NotNil(t, snap.JobByID("job-002"))
	assert.NotNil(t, snap.TalentByID("talent-003"))
	assert.Nil(t, snap.TalentByID("talent-999"))
}

func TestNew_Validation(t *testing.T) {
	valid := models.Business{ID: "b1", Name: "One"}

	tests := []struct {
		name    string
		data    catalog.Data
		wantErr error
	}{
		{
			name:    "duplicate business",
			data:    catalog.Data{Businesses: []models.Business{valid, valid}},
			wantErr: models.ErrDuplicateID,
		},
		{
			name:    "empty business id",
			data:    catalog.Data{Businesses: []models.Business{{Name: "No ID"}}},
			wantErr: models.ErrEmptyID,
		},
		{
			name:    "business without name",
			data:    catalog.Data{Businesses: []models.Business{{ID: "b2"}}},
			wantErr: models.ErrMissingName,
		},
		{
			name:    "bad grant deadline",
			data:    catalog.Data{Grants: []models.Grant{{ID: "g1", Name: "G", Deadline: "next week"}}},
			wantErr: models.ErrInvalidDeadline,
		},
		{
			name:    "bad job type",
			data:    catalog.Data{Jobs: []models.Job{{ID: "j1", JobType: "gig"}}},
			wantErr: models.ErrInvalidJobType,
		},
		{
			name: "duplicate match list",
			data: catalog.Data{Matches: []models.BusinessMatches{
				{BusinessID: "b1"},
				{BusinessID: "b1"},
			}},
			wantErr: models.ErrDuplicateID,
		},
		{
			name:    "duplicate reply",
			data:    catalog.Data{Replies: []models.Reply{{ID: "r1"}, {ID: "r1"}}},
			wantErr: models.ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.New(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
		})
	}
}

func TestLoadFS_OptionalFiles(t *testing.T) {
	fsys := fstest.MapFS{
		catalog.BusinessesFile: {Data: []byte(`[{"id":"b1","name":"One","eligibility":{"industries":["Retail"]}}]`)},
		catalog.GrantsFile:     {Data: []byte(`[]`)},
	}

	snap, err := catalog.LoadFS(fsys)
	require.NoError(t, err)
	assert.Len(t, snap.Businesses(), 1)
	assert.Empty(t, snap.Threads())
	assert.Empty(t, snap.Jobs())
	assert.True(t, snap.BusinessByID("b1").Eligibility.HasIndustry("Retail"))
}

func TestLoadFS_MissingRequiredFile(t *testing.T) {
	fsys := fstest.MapFS{
		catalog.GrantsFile: {Data: []byte(`[]`)},
	}

	_, err := catalog.LoadFS(fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrMissingFile)
	assert.Contains(t, err.Error(), catalog.BusinessesFile)
}

func TestLoadFS_MalformedJSON(t *testing.T) {
	fsys := fstest.MapFS{
		catalog.BusinessesFile: {Data: []byte(`{"not":"an array"}`)},
		catalog.GrantsFile:     {Data: []byte(`[]`)},
	}

	_, err := catalog.LoadFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode businesses.json")
}

func TestParse_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := catalog.Parse(func(name string) ([]byte, error) {
		if name == catalog.GrantsFile {
			return nil, boom
		}
		if name == catalog.BusinessesFile {
			return []byte(`[]`), nil
		}
		return nil, fs.ErrNotExist
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	snap, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	files, err := catalog.Marshal(snap.Data())
	require.NoError(t, err)
	assert.Len(t, files, len(catalog.Files()))

	reloaded, err := catalog.Parse(func(name string) ([]byte, error) {
		content, ok := files[name]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return content, nil
	})
	require.NoError(t, err)
	assert.Equal(t, snap.Stats(), reloaded.Stats())
	assert.Equal(t, snap.BusinessByID("biz-004"), reloaded.BusinessByID("biz-004"))
}

func TestMarshal_EmptyCollectionsAreArrays(t *testing.T) {
	files, err := catalog.Marshal(catalog.Data{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(files[catalog.ThreadsFile]))
}
