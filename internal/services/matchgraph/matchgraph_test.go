package matchgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
	"auctus-engine/internal/services/matchgraph"
)

func embeddedGraph(t *testing.T) (*matchgraph.Graph, *catalog.Snapshot) {
	t.Helper()
	snap, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return matchgraph.New(snap), snap
}

func partnerIDs(views []models.MatchView) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.PartnerBusiness.ID)
	}
	return ids
}

func business(id string) models.Business {
	return models.Business{ID: id, Name: "Business " + id}
}

func edge(partnerID string, score int, youNeed, theyOffer, mutual []string) models.Match {
	return models.Match{
		PartnerID:  partnerID,
		MatchScore: score,
		Reasoning: models.Reasoning{
			YouNeed:        youNeed,
			TheyOffer:      theyOffer,
			MutualBenefits: mutual,
		},
	}
}

func TestGraph_ForwardMatches(t *testing.T) {
	graph, _ := embeddedGraph(t)

	matches := graph.ForwardMatches("biz-001")
	require.Len(t, matches, 2)
	assert.Equal(t, "biz-003", matches[0].PartnerID)
	assert.Equal(t, "biz-002", matches[1].PartnerID)

	assert.Empty(t, graph.ForwardMatches("biz-003"))
	assert.Empty(t, graph.ForwardMatches("biz-999"))
}

func TestGraph_MatchesWithBusinessDetails(t *testing.T) {
	graph, _ := embeddedGraph(t)

	views := graph.MatchesWithBusinessDetails("biz-001")
	require.Len(t, views, 2)
	assert.Equal(t, "Maritime Roasters", views[0].YourBusiness.Name)
	assert.Equal(t, "Valley Fabrication", views[0].PartnerBusiness.Name)
	assert.Equal(t, 82, views[0].Reasoning.MatchScore)
	assert.Equal(t, []string{"packaging"}, views[0].Reasoning.YouNeed)
	assert.Equal(t, []string{"custom shipping crates"}, views[0].Reasoning.TheyOffer)
	assert.Equal(t, models.MatchDirectionForward, views[0].Direction)

	assert.Nil(t, graph.MatchesWithBusinessDetails("biz-999"))
}

func TestGraph_MatchesWithBusinessDetails_SkipsUnknownPartner(t *testing.T) {
	snap, err := catalog.New(catalog.Data{
		Businesses: []models.Business{business("a"), business("b")},
		Matches: []models.BusinessMatches{{
			BusinessID: "a",
			Matches: []models.Match{
				edge("ghost", 90, nil, nil, nil),
				edge("b", 50, nil, nil, nil),
			},
		}},
	})
	require.NoError(t, err)

	views := matchgraph.New(snap).MatchesWithBusinessDetails("a")
	assert.Equal(t, []string{"b"}, partnerIDs(views))
}

func TestGraph_ReciprocalMatches(t *testing.T) {
	graph, _ := embeddedGraph(t)

	views := graph.ReciprocalMatches("biz-001")
	assert.Equal(t, []string{"biz-005", "biz-004"}, partnerIDs(views))

	top := views[0]
	assert.Equal(t, "biz-001", top.YourBusiness.ID)
	assert.Equal(t, 90, top.Reasoning.MatchScore)
	assert.Equal(t, models.MatchDirectionReciprocal, top.Direction)

	assert.Nil(t, graph.ReciprocalMatches("biz-999"))
	assert.Empty(t, graph.ReciprocalMatches("biz-005"))
}

func TestGraph_ReciprocalMatches_EmbeddedEdge(t *testing.T) {
	graph, _ := embeddedGraph(t)

	views := graph.ReciprocalMatches("biz-003")
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, "biz-003", v.YourBusiness.ID)
	assert.Equal(t, "biz-001", v.PartnerBusiness.ID)
	assert.Equal(t, 82, v.Reasoning.MatchScore)
	assert.Equal(t, []string{"custom shipping crates"}, v.Reasoning.YouNeed)
	assert.Equal(t, []string{"packaging"}, v.Reasoning.TheyOffer)
	assert.Equal(t, models.MatchDirectionReciprocal, v.Direction)
}

func TestGraph_ReciprocalMatches_SwapsPerspective(t *testing.T) {
	stored := edge("b", 72, []string{"packaging"}, []string{"boxes", "labels"}, []string{"shared shipping"})
	snap, err := catalog.New(catalog.Data{
		Businesses: []models.Business{business("a"), business("b")},
		Matches:    []models.BusinessMatches{{BusinessID: "a", Matches: []models.Match{stored}}},
	})
	require.NoError(t, err)

	views := matchgraph.New(snap).ReciprocalMatches("b")
	require.Len(t, views, 1)

	r := views[0].Reasoning
	assert.Equal(t, stored.Reasoning.TheyOffer, r.YouNeed)
	assert.Equal(t, stored.Reasoning.YouNeed, r.TheyOffer)
	assert.Equal(t, stored.Reasoning.MutualBenefits, r.MutualBenefits)
	assert.Equal(t, stored.MatchScore, r.MatchScore)
	assert.Equal(t, "b", views[0].YourBusiness.ID)
	assert.Equal(t, "a", views[0].PartnerBusiness.ID)
}

func TestGraph_ReciprocalMatches_DoesNotAliasCatalog(t *testing.T) {
	snap, err := catalog.New(catalog.Data{
		Businesses: []models.Business{business("a"), business("b")},
		Matches: []models.BusinessMatches{{
			BusinessID: "a",
			Matches:    []models.Match{edge("b", 60, []string{"need"}, []string{"offer"}, []string{"benefit"})},
		}},
	})
	require.NoError(t, err)
	graph := matchgraph.New(snap)

	views := graph.ReciprocalMatches("b")
	require.Len(t, views, 1)
	views[0].Reasoning.YouNeed[0] = "changed"
	views[0].Reasoning.TheyOffer[0] = "changed"
	views[0].Reasoning.MutualBenefits[0] = "changed"

	stored := snap.MatchesForBusiness("a")[0].Reasoning
	assert.Equal(t, []string{"need"}, stored.YouNeed)
	assert.Equal(t, []string{"offer"}, stored.TheyOffer)
	assert.Equal(t, []string{"benefit"}, stored.MutualBenefits)
}

func TestGraph_ReciprocalMatches_IgnoresSelfEdges(t *testing.T) {
	snap, err := catalog.New(catalog.Data{
		Businesses: []models.Business{business("a")},
		Matches: []models.BusinessMatches{{
			BusinessID: "a",
			Matches:    []models.Match{edge("a", 99, nil, nil, nil)},
		}},
	})
	require.NoError(t, err)

	assert.Empty(t, matchgraph.New(snap).ReciprocalMatches("a"))
}

func TestGraph_ReciprocalMatches_StableOnTies(t *testing.T) {
	snap, err := catalog.New(catalog.Data{
		Businesses: []models.Business{business("target"), business("x"), business("y"), business("z")},
		Matches: []models.BusinessMatches{
			{BusinessID: "x", Matches: []models.Match{edge("target", 50, nil, nil, nil)}},
			{BusinessID: "y", Matches: []models.Match{edge("target", 80, nil, nil, nil)}},
			{BusinessID: "z", Matches: []models.Match{edge("target", 50, nil, nil, nil)}},
		},
	})
	require.NoError(t, err)

	views := matchgraph.New(snap).ReciprocalMatches("target")
	assert.Equal(t, []string{"y", "x", "z"}, partnerIDs(views))
}

func TestGraph_AllMatches(t *testing.T) {
	graph, _ := embeddedGraph(t)

	views := graph.AllMatches("biz-001")
	assert.Equal(t, []string{"biz-005", "biz-003", "biz-004", "biz-002"}, partnerIDs(views))
	for i := 1; i < len(views); i++ {
		assert.GreaterOrEqual(t, views[i-1].Reasoning.MatchScore, views[i].Reasoning.MatchScore)
	}
}

func TestGraph_AllMatches_ForwardWinsOverReciprocal(t *testing.T) {
	snap, err := catalog.New(catalog.Data{
		Businesses: []models.Business{business("a"), business("b")},
		Matches: []models.BusinessMatches{
			{BusinessID: "a", Matches: []models.Match{edge("b", 40, []string{"forward"}, nil, nil)}},
			{BusinessID: "b", Matches: []models.Match{edge("a", 95, nil, []string{"reciprocal"}, nil)}},
		},
	})
	require.NoError(t, err)

	views := matchgraph.New(snap).AllMatches("a")
	require.Len(t, views, 1)
	assert.Equal(t, models.MatchDirectionForward, views[0].Direction)
	assert.Equal(t, 40, views[0].Reasoning.MatchScore)
	assert.Equal(t, []string{"forward"}, views[0].Reasoning.YouNeed)
}

func TestGraph_Tabs(t *testing.T) {
	graph, _ := embeddedGraph(t)

	counts := graph.Tabs("biz-001")
	assert.Equal(t, matchgraph.TabCounts{All: 4, YouNeed: 2, YouOffer: 2, Mutual: 1}, counts)

	assert.Equal(t, []string{"biz-003"}, partnerIDs(graph.MutualMatches("biz-001")))
	assert.Equal(t, []string{"biz-005", "biz-004"}, partnerIDs(graph.MatchesForTab("biz-001", matchgraph.TabYouOffer)))
	assert.Equal(t, []string{"biz-003", "biz-002"}, partnerIDs(graph.MatchesForTab("biz-001", matchgraph.Tab("other"))))

	assert.Equal(t, matchgraph.TabCounts{}, graph.Tabs("biz-999"))
}

func TestGraph_MutualMatches_BenefitsThreshold(t *testing.T) {
	snap, err := catalog.New(catalog.Data{
		Businesses: []models.Business{business("a"), business("b"), business("c"), business("d")},
		Matches: []models.BusinessMatches{{
			BusinessID: "a",
			Matches: []models.Match{
				edge("b", 40, []string{"x"}, nil, []string{"one", "two"}),
				edge("c", 40, nil, nil, []string{"one"}),
				edge("d", 75, nil, nil, nil),
			},
		}},
	})
	require.NoError(t, err)
	graph := matchgraph.New(snap)

	assert.Equal(t, []string{"b", "d"}, partnerIDs(graph.MutualMatches("a")))
	assert.Equal(t, []string{"b"}, partnerIDs(graph.YouNeedMatches("a")))
}
