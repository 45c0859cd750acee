package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HendryAvila/tgt/internal/results"
)

func rec(user, archetype string, past, present, future float64) results.Record {
	return results.Record{
		Timestamp:    "2026-01-01 00:00:00",
		UserID:       user,
		PastScore:    past,
		PresentScore: present,
		FutureScore:  future,
		Archetype:    archetype,
	}
}

func TestAggregate_NoData(t *testing.T) {
	for _, in := range [][]results.Record{nil, {}} {
		rep := Aggregate(in)
		if !rep.NoData() {
			t.Error("NoData() = false, want true")
		}
		if rep.Count != 0 {
			t.Errorf("Count = %d, want 0", rep.Count)
		}
		if rep.Means != nil {
			t.Errorf("Means = %+v, want nil", rep.Means)
		}
		if len(rep.Distribution) != 0 {
			t.Errorf("Distribution = %v, want empty", rep.Distribution)
		}
	}
}

func TestAggregate_NoDataJSON(t *testing.T) {
	data, err := json.Marshal(Aggregate(nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"count":0,"means":null,"distribution":[]}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}

func TestAggregate_SingleRecordMeansEqualScores(t *testing.T) {
	r := rec("alice", "The Nostalgic", 100, 14.29, 57.14)
	rep := Aggregate([]results.Record{r})

	if rep.NoData() {
		t.Fatal("NoData() = true for one record")
	}
	if rep.Count != 1 {
		t.Errorf("Count = %d, want 1", rep.Count)
	}
	if got, want := *rep.Means, (Means{Past: 100, Present: 14.29, Future: 57.14}); got != want {
		t.Errorf("Means = %+v, want %+v", got, want)
	}
	want := []ArchetypeCount{{Archetype: "The Nostalgic", Count: 1}}
	if diff := cmp.Diff(want, rep.Distribution); diff != "" {
		t.Errorf("Distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_Means(t *testing.T) {
	rep := Aggregate([]results.Record{
		rec("a", "The Nostalgic", 80, 20, 50),
		rec("b", "The Visionary", 40, 60, 90),
		rec("c", "The Visionary", 60, 40, 70),
	})
	if rep.Means == nil {
		t.Fatal("Means = nil")
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"Past", rep.Means.Past, 60},
		{"Present", rep.Means.Present, 40},
		{"Future", rep.Means.Future, 70},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("mean %s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestAggregate_DistributionOrder(t *testing.T) {
	rep := Aggregate([]results.Record{
		rec("a", "The Visionary", 0, 0, 0),
		rec("b", "The Flow-Seeker", 0, 0, 0),
		rec("c", "The Nostalgic", 0, 0, 0),
		rec("d", "The Flow-Seeker", 0, 0, 0),
		rec("e", "The Visionary", 0, 0, 0),
		rec("f", "The Flow-Seeker", 0, 0, 0),
	})

	want := []ArchetypeCount{
		{Archetype: "The Flow-Seeker", Count: 3},
		{Archetype: "The Visionary", Count: 2},
		{Archetype: "The Nostalgic", Count: 1},
	}
	if diff := cmp.Diff(want, rep.Distribution); diff != "" {
		t.Errorf("Distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_TiesSortByLabel(t *testing.T) {
	rep := Aggregate([]results.Record{
		rec("a", "The Visionary", 0, 0, 0),
		rec("b", "The Nostalgic", 0, 0, 0),
		rec("c", "The Flow-Seeker", 0, 0, 0),
	})

	var labels []string
	for _, d := range rep.Distribution {
		labels = append(labels, d.Archetype)
	}
	want := []string{"The Flow-Seeker", "The Nostalgic", "The Visionary"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	in := []results.Record{
		rec("b", "The Visionary", 1, 2, 3),
		rec("a", "The Nostalgic", 4, 5, 6),
	}
	snapshot := append([]results.Record(nil), in...)

	_ = Aggregate(in)
	if diff := cmp.Diff(snapshot, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}
