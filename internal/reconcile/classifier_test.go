package reconcile

import (
	"testing"
	"time"

	"github.com/slateroom/slateroom-backend/internal/domain"
)

func TestClassifyExactAutoApplies(t *testing.T) {
	now := time.Now()
	smith := testElement("JOHN SMITH", domain.ElementTypeCharacter, now)
	detected := []domain.DetectedElement{
		{Name: "john  smith", Type: domain.ElementTypeCharacter, Pages: []int{3}},
	}

	plan := Classify(detected, []*domain.Element{smith}, DefaultFuzzyThreshold)
	if len(plan.Exact) != 1 || plan.Exact[0].Element.ID != smith.ID {
		t.Fatalf("expected one exact apply for JOHN SMITH, got %+v", plan.Exact)
	}
	if len(plan.Fuzzy) != 0 || len(plan.Created) != 0 || len(plan.Missing) != 0 {
		t.Fatalf("expected clean plan, got %+v", plan)
	}
	if plan.NeedsDecision() {
		t.Fatal("exact-only plan should not need a decision")
	}
}

func TestClassifyFuzzyWithinThreshold(t *testing.T) {
	now := time.Now()
	smith := testElement("JOHN SMITH", domain.ElementTypeCharacter, now)
	detected := []domain.DetectedElement{
		{Name: "JOHN SMITHE", Type: domain.ElementTypeCharacter},
	}

	plan := Classify(detected, []*domain.Element{smith}, DefaultFuzzyThreshold)
	if len(plan.Fuzzy) != 1 {
		t.Fatalf("expected one fuzzy candidate, got %+v", plan)
	}
	fz := plan.Fuzzy[0]
	if fz.Element.ID != smith.ID || fz.Detected.Name != "JOHN SMITHE" {
		t.Fatalf("fuzzy candidate pairs wrong rows: %+v", fz)
	}
	if fz.Similarity < DefaultFuzzyThreshold || fz.Similarity >= 1.0 {
		t.Fatalf("fuzzy similarity out of window: %v", fz.Similarity)
	}
	if len(plan.Missing) != 0 {
		t.Fatalf("fuzzy-claimed element must not also be missing: %+v", plan.Missing)
	}
	if !plan.NeedsDecision() {
		t.Fatal("fuzzy plan needs a decision")
	}
}

func TestClassifyBelowThresholdCreates(t *testing.T) {
	now := time.Now()
	smith := testElement("JOHN SMITH", domain.ElementTypeCharacter, now)
	detected := []domain.DetectedElement{
		{Name: "GENERAL HUX", Type: domain.ElementTypeCharacter},
	}

	plan := Classify(detected, []*domain.Element{smith}, DefaultFuzzyThreshold)
	if len(plan.Created) != 1 || plan.Created[0].Name != "GENERAL HUX" {
		t.Fatalf("expected auto-create for unmatched detection, got %+v", plan)
	}
	if len(plan.Missing) != 1 || plan.Missing[0].ID != smith.ID {
		t.Fatalf("expected unclaimed prior element as missing, got %+v", plan.Missing)
	}
}

func TestClassifyNoDetectionsAllMissing(t *testing.T) {
	now := time.Now()
	older := testElement("JOHN SMITH", domain.ElementTypeCharacter, now.Add(-time.Hour))
	newer := testElement("WAREHOUSE", domain.ElementTypeLocation, now)

	plan := Classify(nil, []*domain.Element{newer, older}, DefaultFuzzyThreshold)
	if len(plan.Missing) != 2 {
		t.Fatalf("expected two missing rows, got %+v", plan.Missing)
	}
	if plan.Missing[0].ID != older.ID {
		t.Fatal("missing rows must be ordered oldest first")
	}
}

func TestClassifyInvalidThresholdFallsBack(t *testing.T) {
	now := time.Now()
	smith := testElement("JOHN SMITH", domain.ElementTypeCharacter, now)
	detected := []domain.DetectedElement{
		{Name: "JOHN SMITHE", Type: domain.ElementTypeCharacter},
	}

	for _, threshold := range []float64{0, -1, 1.5} {
		plan := Classify(detected, []*domain.Element{smith}, threshold)
		if len(plan.Fuzzy) != 1 {
			t.Fatalf("threshold %v: expected default-threshold fuzzy classification, got %+v", threshold, plan)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	now := time.Now()
	actives := []*domain.Element{
		testElement("JOHN SMITH", domain.ElementTypeCharacter, now.Add(-2*time.Hour)),
		testElement("MARY JONES", domain.ElementTypeCharacter, now.Add(-time.Hour)),
		testElement("WAREHOUSE", domain.ElementTypeLocation, now),
	}
	detected := []domain.DetectedElement{
		{Name: "JOHN SMITHE", Type: domain.ElementTypeCharacter},
		{Name: "DOCKYARD", Type: domain.ElementTypeLocation},
	}

	first := Classify(detected, actives, DefaultFuzzyThreshold)
	for i := 0; i < 5; i++ {
		again := Classify(detected, actives, DefaultFuzzyThreshold)
		if len(again.Exact) != len(first.Exact) ||
			len(again.Created) != len(first.Created) ||
			len(again.Fuzzy) != len(first.Fuzzy) ||
			len(again.Missing) != len(first.Missing) {
			t.Fatalf("plan shape changed between runs: %+v vs %+v", first, again)
		}
		for j := range first.Fuzzy {
			if again.Fuzzy[j].Element.ID != first.Fuzzy[j].Element.ID {
				t.Fatal("fuzzy pairing changed between runs")
			}
		}
		for j := range first.Missing {
			if again.Missing[j].ID != first.Missing[j].ID {
				t.Fatal("missing order changed between runs")
			}
		}
	}
}
