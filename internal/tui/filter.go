package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/selsync/internal/database/repository"
)

// fuzzyMatchScore scores label against query. Subsequence matches earn a
// base score with bonuses for a prefix hit, consecutive runs and an exact
// match. When the query is not a subsequence, a label prefix within one edit
// of the query still matches with a low score.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		j := strings.IndexByte(labelLower[searchFrom:], ch)
		if j < 0 {
			return typoMatch(labelLower, queryLower)
		}
		matchIdx = append(matchIdx, searchFrom+j)
		searchFrom += j + 1
	}

	score := len(queryLower)
	if matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

func typoMatch(labelLower, queryLower string) (bool, int) {
	if len(queryLower) < 3 {
		return false, 0
	}
	prefix := labelLower
	if len(prefix) > len(queryLower) {
		prefix = prefix[:len(queryLower)]
	}
	if levenshtein.ComputeDistance(prefix, queryLower) > 1 {
		return false, 0
	}
	return true, 1
}

type scoredItem struct {
	item  *repository.Item
	score int
}

// filterItems keeps the items matching query, best score first. Ties keep
// the catalog order.
func filterItems(items []*repository.Item, query string) []*repository.Item {
	q := strings.TrimSpace(query)
	if q == "" {
		return append([]*repository.Item(nil), items...)
	}
	scored := make([]scoredItem, 0, len(items))
	for _, it := range items {
		if ok, score := fuzzyMatchScore(it.Label, q); ok {
			scored = append(scored, scoredItem{item: it, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	out := make([]*repository.Item, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.item)
	}
	return out
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}
