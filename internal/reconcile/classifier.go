package reconcile

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/domain"
)

// DefaultFuzzyThreshold is the minimum similarity at which a detected
// element is surfaced as a FUZZY match instead of being created as new.
const DefaultFuzzyThreshold = 0.80

// ExactApply reuses a prior element's identity for a detected element whose
// normalized name is identical; only the page references change.
type ExactApply struct {
	Element  *domain.Element
	Detected domain.DetectedElement
}

// FuzzyCandidate pairs a detected element with a prior element that scored
// at or above the fuzzy threshold but below 1.0.
type FuzzyCandidate struct {
	Detected   domain.DetectedElement
	Element    *domain.Element
	Similarity float64
}

// Plan is the deterministic output of one classification pass: what gets
// auto-applied, what gets auto-created, and which correspondences need a
// human decision. The same detected list and prior-element snapshot always
// produce the same plan.
type Plan struct {
	Exact   []ExactApply
	Created []domain.DetectedElement
	Fuzzy   []FuzzyCandidate
	Missing []*domain.Element
}

// NeedsDecision reports whether the plan leaves anything for a human to
// resolve; if not, the revision can go straight to READY.
func (p Plan) NeedsDecision() bool {
	return len(p.Fuzzy) > 0 || len(p.Missing) > 0
}

// Classify runs the matcher over every detected element and partitions the
// outcome. A prior element may be the best candidate of more than one
// detected element; conflicting claims are rejected later, at resolve time.
// Prior elements that end up neither exact-applied nor referenced by a
// fuzzy candidate are reported as missing.
func Classify(detected []domain.DetectedElement, actives []*domain.Element, threshold float64) Plan {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}

	var plan Plan
	claimed := make(map[uuid.UUID]bool, len(actives))

	for _, det := range detected {
		best := BestCandidate(det, actives)
		switch {
		case best != nil && NormalizeName(det.Name) == NormalizeName(best.Element.Name):
			plan.Exact = append(plan.Exact, ExactApply{Element: best.Element, Detected: det})
			claimed[best.Element.ID] = true
		case best != nil && best.Similarity >= threshold:
			plan.Fuzzy = append(plan.Fuzzy, FuzzyCandidate{Detected: det, Element: best.Element, Similarity: best.Similarity})
			claimed[best.Element.ID] = true
		default:
			plan.Created = append(plan.Created, det)
		}
	}

	missing := make([]*domain.Element, 0)
	for _, el := range actives {
		if el == nil || claimed[el.ID] {
			continue
		}
		missing = append(missing, el)
	}
	sort.SliceStable(missing, func(i, j int) bool {
		if !missing[i].CreatedAt.Equal(missing[j].CreatedAt) {
			return missing[i].CreatedAt.Before(missing[j].CreatedAt)
		}
		return strings.Compare(missing[i].ID.String(), missing[j].ID.String()) < 0
	})
	plan.Missing = missing

	return plan
}
