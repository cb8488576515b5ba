package agentsearch

import (
	"olasagents-backend/lib/agentstore"
	"olasagents-backend/lib/textutil"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// DefaultThreshold is the minimum similarity FuzzySearch accepts when the
// caller passes 0.
const DefaultThreshold = 0.85

// Search returns the records whose name contains query, ignoring case, in
// store order. An empty query matches every record.
func Search(records []agentstore.AgentRecord, query string) []agentstore.AgentRecord {
	results := []agentstore.AgentRecord{}
	for _, r := range records {
		if textutil.ContainsFold(r.Name, query) {
			results = append(results, r)
		}
	}
	return results
}

type Match struct {
	Record agentstore.AgentRecord
	Score  float64
}

// Similarity scores how well name matches query in [0, 1]. Substring matches
// score 1, otherwise the best Jaro-Winkler similarity between the query and
// either the whole name or one of its words.
func Similarity(name, query string) float64 {
	name = textutil.NormalizeName(name)
	query = textutil.NormalizeName(query)
	if query == "" || strings.Contains(name, query) {
		return 1
	}
	if name == "" {
		return 0
	}

	best := matchr.JaroWinkler(name, query, false)
	for _, word := range strings.FieldsFunc(name, isSeparator) {
		score := matchr.JaroWinkler(word, query, false)
		if score > best {
			best = score
		}
	}
	return best
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '-', '_', '/', '.':
		return true
	}
	return false
}

// FuzzySearch returns the records whose Similarity to query reaches
// threshold, best first. Ties keep store order.
func FuzzySearch(records []agentstore.AgentRecord, query string, threshold float64) []Match {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	matches := []Match{}
	for _, r := range records {
		score := Similarity(r.Name, query)
		if score < threshold {
			continue
		}
		matches = append(matches, Match{Record: r, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Records strips the scores from matches.
func Records(matches []Match) []agentstore.AgentRecord {
	out := make([]agentstore.AgentRecord, len(matches))
	for i, m := range matches {
		out[i] = m.Record
	}
	return out
}
