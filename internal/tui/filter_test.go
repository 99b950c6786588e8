package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/selsync/internal/database/repository"
)

func TestFuzzyMatchScoreRanking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		labelA string
		labelB string
		query  string
	}{
		{name: "exact beats prefix", labelA: "Oats", labelB: "Oatsmeal", query: "oats"},
		{name: "prefix beats non-prefix", labelA: "Mango", labelB: "Green Mango", query: "ma"},
		{name: "consecutive beats split", labelA: "Barley", labelB: "Banana Relish", query: "arl"},
		{name: "subsequence beats typo", labelA: "Carrot", labelB: "Cxrrot", query: "carr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matchA, scoreA := fuzzyMatchScore(tt.labelA, tt.query)
			matchB, scoreB := fuzzyMatchScore(tt.labelB, tt.query)
			require.True(t, matchA)
			require.True(t, matchB)
			require.Greater(t, scoreA, scoreB)
		})
	}
}

func TestFuzzyMatchTypoTolerance(t *testing.T) {
	t.Parallel()

	ok, _ := fuzzyMatchScore("Pumpkin", "pumo")
	require.True(t, ok)

	ok, _ = fuzzyMatchScore("Pumpkin", "zzz")
	require.False(t, ok)

	// short queries never fall back
	ok, _ = fuzzyMatchScore("Rice", "rx")
	require.False(t, ok)

	ok, score := fuzzyMatchScore("anything", "")
	require.True(t, ok)
	require.Zero(t, score)
}

func TestFilterItemsKeepsCatalogOrderOnTies(t *testing.T) {
	t.Parallel()

	items := []*repository.Item{
		{ID: "1", Label: "Alpha"},
		{ID: "2", Label: "Alpine"},
		{ID: "3", Label: "Beta"},
		{ID: "4", Label: "Alps"},
	}
	got := filterItems(items, "al")
	require.Len(t, got, 3)
	require.Equal(t, []string{"1", "2", "4"}, []string{got[0].ID, got[1].ID, got[2].ID})

	all := filterItems(items, "  ")
	require.Len(t, all, 4)
	all[0] = nil
	require.NotNil(t, items[0])
}

func TestListBoxCursorBounds(t *testing.T) {
	t.Parallel()

	lb := NewListBox("List", testCatalog())
	require.NoError(t, lb.HandleKey("k"))
	require.Equal(t, 0, lb.cursor)
	require.NoError(t, lb.HandleKey("G"))
	require.Equal(t, len(testCatalog())-1, lb.cursor)
	require.NoError(t, lb.HandleKey("j"))
	require.Equal(t, len(testCatalog())-1, lb.cursor)
	require.NoError(t, lb.HandleKey("g"))
	require.Equal(t, 0, lb.cursor)

	lb.SetQuery("zzzz")
	require.Equal(t, 0, lb.cursor)
	require.NoError(t, lb.HandleKey(" "))
	require.Zero(t, lb.SelectedItems().Len())
	require.Contains(t, lb.View(30, true), "(no items)")
}
