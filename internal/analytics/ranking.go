package analytics

import (
	"sort"

	"github.com/julianstephens/steady/internal/models"
)

// Count is a raw occurrence count for a label, such as an emotion tag or a
// journal category.
type Count struct {
	Label   string
	Count   int
	AvgMood float64
}

// Ranked is a Count with its share of the total and, once compared, its trend.
type Ranked struct {
	Count
	Percent       float64
	PreviousCount int
	Trend         Trend
}

// Rank computes each label's percentage share and sorts by count descending,
// then label ascending.
func Rank(counts []Count) []Ranked {
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	ranked := make([]Ranked, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		r := Ranked{Count: c}
		if total > 0 {
			r.Percent = float64(c.Count) / float64(total) * 100
		}
		ranked = append(ranked, r)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count.Count != ranked[j].Count.Count {
			return ranked[i].Count.Count > ranked[j].Count.Count
		}
		return ranked[i].Label < ranked[j].Label
	})
	return ranked
}

// CompareTo sets each entry's trend against the preceding period's counts.
// More occurrences than before is improving, fewer is declining.
func CompareTo(ranked []Ranked, previous []Count) []Ranked {
	prev := make(map[string]int, len(previous))
	for _, c := range previous {
		prev[c.Label] += c.Count
	}

	out := make([]Ranked, len(ranked))
	for i, r := range ranked {
		r.PreviousCount = prev[r.Label]
		switch {
		case r.Count.Count > r.PreviousCount:
			r.Trend = TrendImproving
		case r.Count.Count < r.PreviousCount:
			r.Trend = TrendDeclining
		default:
			r.Trend = TrendStable
		}
		out[i] = r
	}
	return out
}

// Top returns at most n entries. n <= 0 returns all.
func Top(ranked []Ranked, n int) []Ranked {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// FromTagCounts converts storage rows into counts.
func FromTagCounts(rows []models.TagCount) []Count {
	out := make([]Count, len(rows))
	for i, r := range rows {
		out[i] = Count{Label: r.Tag, Count: r.Count, AvgMood: r.AvgMood}
	}
	return out
}

// CountLabels tallies repeated labels.
func CountLabels(labels []string) []Count {
	idx := make(map[string]int)
	var out []Count
	for _, l := range labels {
		if l == "" {
			continue
		}
		if i, ok := idx[l]; ok {
			out[i].Count++
			continue
		}
		idx[l] = len(out)
		out = append(out, Count{Label: l, Count: 1})
	}
	return out
}

// DistortionCounts tallies distortions across reframes.
func DistortionCounts(reframes []models.ReframeEntry) []Count {
	var labels []string
	for _, r := range reframes {
		for _, d := range r.Distortions {
			labels = append(labels, string(d))
		}
	}
	return CountLabels(labels)
}

// WorryCategoryCounts tallies worry categories.
func WorryCategoryCounts(worries []models.WorryEntry) []Count {
	labels := make([]string, len(worries))
	for i, w := range worries {
		labels[i] = string(w.Category)
	}
	return CountLabels(labels)
}

// WinCategoryCounts tallies micro-win categories.
func WinCategoryCounts(wins []models.MicroWin) []Count {
	labels := make([]string, len(wins))
	for i, w := range wins {
		labels[i] = string(w.Category)
	}
	return CountLabels(labels)
}
