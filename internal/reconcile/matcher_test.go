package reconcile

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/domain"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"JOHN SMITH", "john smith"},
		{"  John   Smith  ", "john smith"},
		{"john\tsmith", "john smith"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSimilarityExactAfterNormalization(t *testing.T) {
	if got := Similarity("JOHN  SMITH", "john smith"); got != 1.0 {
		t.Fatalf("expected 1.0 for equal normalized names, got %v", got)
	}
}

func TestSimilarityEmptyNames(t *testing.T) {
	if got := Similarity("", ""); got != 0 {
		t.Fatalf("expected 0 for two empty names, got %v", got)
	}
	if got := Similarity("john", ""); got != 0 {
		t.Fatalf("expected 0 for one empty name, got %v", got)
	}
}

func TestSimilarityNearMiss(t *testing.T) {
	// One insertion over 11 runes.
	got := Similarity("JOHN SMITH", "JOHN SMITHE")
	want := 1.0 - 1.0/11.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Similarity = %v, want %v", got, want)
	}
	if got < DefaultFuzzyThreshold || got >= 1.0 {
		t.Fatalf("expected score in fuzzy window [%v, 1.0), got %v", DefaultFuzzyThreshold, got)
	}
}

func TestSimilarityDistantNames(t *testing.T) {
	got := Similarity("JOHN SMITH", "WAREHOUSE INTERIOR")
	if got >= DefaultFuzzyThreshold {
		t.Fatalf("expected distant names below threshold, got %v", got)
	}
}

func testElement(name, elementType string, createdAt time.Time) *domain.Element {
	return &domain.Element{
		ID:        uuid.New(),
		LineageID: uuid.New(),
		Name:      name,
		Type:      elementType,
		Status:    domain.ElementStatusActive,
		CreatedAt: createdAt,
	}
}

func TestBestCandidateRespectsTypeBucket(t *testing.T) {
	now := time.Now()
	actives := []*domain.Element{
		testElement("JOHN SMITH", domain.ElementTypeLocation, now),
	}
	det := domain.DetectedElement{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter}
	if got := BestCandidate(det, actives); got != nil {
		t.Fatalf("expected nil candidate across type buckets, got %+v", got)
	}
}

func TestBestCandidatePicksHighestScore(t *testing.T) {
	now := time.Now()
	smith := testElement("JOHN SMITH", domain.ElementTypeCharacter, now)
	jones := testElement("MARY JONES", domain.ElementTypeCharacter, now)
	det := domain.DetectedElement{Name: "JOHN SMITHE", Type: domain.ElementTypeCharacter}

	best := BestCandidate(det, []*domain.Element{jones, smith})
	if best == nil || best.Element.ID != smith.ID {
		t.Fatalf("expected JOHN SMITH as best candidate, got %+v", best)
	}
}

func TestBestCandidateTieGoesToOldest(t *testing.T) {
	now := time.Now()
	older := testElement("JOHN SMITH", domain.ElementTypeCharacter, now.Add(-time.Hour))
	newer := testElement("JOHN SMITH", domain.ElementTypeCharacter, now)
	det := domain.DetectedElement{Name: "JOHN SMITHE", Type: domain.ElementTypeCharacter}

	// Order of the input slice must not matter.
	for _, actives := range [][]*domain.Element{
		{older, newer},
		{newer, older},
	} {
		best := BestCandidate(det, actives)
		if best == nil || best.Element.ID != older.ID {
			t.Fatalf("expected oldest element to win the tie, got %+v", best)
		}
	}
}

func TestBestCandidateEmptyBucket(t *testing.T) {
	det := domain.DetectedElement{Name: "JOHN SMITH", Type: domain.ElementTypeCharacter}
	if got := BestCandidate(det, nil); got != nil {
		t.Fatalf("expected nil for empty prior set, got %+v", got)
	}
}
