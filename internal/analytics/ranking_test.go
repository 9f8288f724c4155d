package analytics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/steady/internal/models"
)

func TestRankSharesSumToHundred(t *testing.T) {
	counts := []Count{
		{Label: "calm", Count: 3},
		{Label: "anxious", Count: 5},
		{Label: "tired", Count: 1},
		{Label: "happy", Count: 4},
	}
	ranked := Rank(counts)

	sum := 0.0
	for _, r := range ranked {
		sum += r.Percent
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

func TestRankOrdering(t *testing.T) {
	ranked := Rank([]Count{
		{Label: "tired", Count: 2},
		{Label: "calm", Count: 2},
		{Label: "anxious", Count: 5},
		{Label: "none", Count: 0},
	})

	var labels []string
	for _, r := range ranked {
		labels = append(labels, r.Label)
	}
	want := []string{"anxious", "calm", "tired"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Errorf("expected empty ranking, got %v", got)
	}
}

func TestCompareTo(t *testing.T) {
	current := Rank([]Count{
		{Label: "calm", Count: 4},
		{Label: "anxious", Count: 2},
		{Label: "tired", Count: 3},
		{Label: "new", Count: 1},
	})
	previous := []Count{
		{Label: "calm", Count: 2},
		{Label: "anxious", Count: 5},
		{Label: "tired", Count: 3},
	}

	got := map[string]Ranked{}
	for _, r := range CompareTo(current, previous) {
		got[r.Label] = r
	}

	if got["calm"].Trend != TrendImproving {
		t.Errorf("calm trend = %s", got["calm"].Trend)
	}
	if got["anxious"].Trend != TrendDeclining || got["anxious"].PreviousCount != 5 {
		t.Errorf("anxious = %+v", got["anxious"])
	}
	if got["tired"].Trend != TrendStable {
		t.Errorf("tired trend = %s", got["tired"].Trend)
	}
	if got["new"].Trend != TrendImproving || got["new"].PreviousCount != 0 {
		t.Errorf("new = %+v", got["new"])
	}
}

func TestTop(t *testing.T) {
	ranked := Rank([]Count{{Label: "a", Count: 3}, {Label: "b", Count: 2}, {Label: "c", Count: 1}})
	if len(Top(ranked, 2)) != 2 {
		t.Error("Top(2) should return 2")
	}
	if len(Top(ranked, 0)) != 3 || len(Top(ranked, 10)) != 3 {
		t.Error("Top should return all when n <= 0 or n >= len")
	}
}

func TestJournalCounts(t *testing.T) {
	reframes := []models.ReframeEntry{
		{Distortions: []models.Distortion{models.DistortionLabeling, models.DistortionMagnification}},
		{Distortions: []models.Distortion{models.DistortionLabeling}},
	}
	got := Rank(DistortionCounts(reframes))
	if got[0].Label != string(models.DistortionLabeling) || got[0].Count.Count != 2 {
		t.Errorf("unexpected top distortion: %+v", got[0])
	}

	wins := []models.MicroWin{{Category: models.WinSocial}, {Category: models.WinSocial}, {Category: models.WinHealth}}
	winRank := Rank(WinCategoryCounts(wins))
	if winRank[0].Label != "social" || math.Abs(winRank[0].Percent-200.0/3) > 1e-9 {
		t.Errorf("unexpected win ranking: %+v", winRank)
	}

	worries := []models.WorryEntry{{Category: models.WorryWork}}
	if c := WorryCategoryCounts(worries); len(c) != 1 || c[0].Label != "work" {
		t.Errorf("unexpected worry counts: %+v", c)
	}
}

func TestFromTagCounts(t *testing.T) {
	got := FromTagCounts([]models.TagCount{{Tag: "calm", Count: 2, AvgMood: 7.5}})
	want := []Count{{Label: "calm", Count: 2, AvgMood: 7.5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
