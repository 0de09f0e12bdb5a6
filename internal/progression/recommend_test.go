package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillkart_backend/internal/model"
)

func roadmap(id, skill string) model.Roadmap {
	r := model.Roadmap{SkillTag: skill, Title: id}
	r.ID = id
	return r
}

func ids(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Roadmap.ID)
	}
	return out
}

func TestRankMatchesFirst(t *testing.T) {
	catalog := []model.Roadmap{roadmap("a", "web-dev"), roadmap("b", "data-science")}
	got := Rank([]string{"web-dev"}, catalog, 4)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Roadmap.ID)
	assert.Equal(t, 100, got[0].MatchScore)
	assert.Equal(t, "b", got[1].Roadmap.ID)
	assert.Equal(t, 0, got[1].MatchScore)
}

func TestRankIgnoresTagCase(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		tag       string
	}{
		{"stored tag mixed case", []string{"web-dev"}, "Web-Dev"},
		{"stored tag padded", []string{"web-dev"}, " web-dev "},
		{"interest mixed case", []string{"Web-Dev"}, "web-dev"},
		{"both mixed case", []string{" WEB-dev"}, "Web-Dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.interests, []model.Roadmap{roadmap("b", "devops"), roadmap("a", tt.tag)}, 4)
			require.Len(t, got, 2)
			assert.Equal(t, "a", got[0].Roadmap.ID)
			assert.Equal(t, MatchScoreFull, got[0].MatchScore)
		})
	}
}

func TestRankIsStable(t *testing.T) {
	catalog := []model.Roadmap{
		roadmap("1", "devops"),
		roadmap("2", "web-dev"),
		roadmap("3", "cloud"),
		roadmap("4", "web-dev"),
		roadmap("5", "ui-ux"),
		roadmap("6", "cloud"),
	}
	interests := []string{"web-dev", "cloud"}

	got := Rank(interests, catalog, 10)
	assert.Equal(t, []string{"2", "3", "4", "6", "1", "5"}, ids(got))

	for i := 0; i < 20; i++ {
		assert.Equal(t, ids(got), ids(Rank(interests, catalog, 10)))
	}

	seenMiss := false
	for _, r := range got {
		if r.MatchScore == 0 {
			seenMiss = true
			continue
		}
		assert.False(t, seenMiss, "matched entry after an unmatched one")
	}
}

func TestRankTruncates(t *testing.T) {
	catalog := []model.Roadmap{
		roadmap("1", "a"), roadmap("2", "b"), roadmap("3", "c"),
		roadmap("4", "d"), roadmap("5", "e"), roadmap("6", "b"),
	}
	got := Rank([]string{"b"}, catalog, 0)
	assert.Equal(t, []string{"2", "6", "1", "3"}, ids(got))

	got = Rank([]string{"b"}, catalog, 1)
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestRankEmptyInputs(t *testing.T) {
	got := Rank([]string{"web-dev"}, nil, 4)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Rank(nil, []model.Roadmap{roadmap("a", "web-dev")}, 4)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRankWithCustomScore(t *testing.T) {
	catalog := []model.Roadmap{roadmap("short", "x"), roadmap("longer", "y")}
	byTitle := func(_ map[string]struct{}, r model.Roadmap) int { return len(r.Title) }

	got := RankWith(byTitle, []string{"any"}, catalog, 4)
	assert.Equal(t, []string{"longer", "short"}, ids(got))
}
