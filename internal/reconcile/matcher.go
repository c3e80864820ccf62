package reconcile

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/slateroom/slateroom-backend/internal/domain"
)

// Candidate is the best-scoring prior element for one detected element.
type Candidate struct {
	Element    *domain.Element
	Similarity float64
}

// Similarity scores two element names in [0,1] using Levenshtein distance
// over normalized names. Names identical after normalization score exactly
// 1.0; an empty side scores 0.
func Similarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == nb {
		if na == "" {
			return 0
		}
		return 1.0
	}
	if na == "" || nb == "" {
		return 0
	}
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	dist := smetrics.WagnerFischer(na, nb, 1, 1, 1)
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// BestCandidate scores a detected element against every ACTIVE prior
// element of the same type and returns the highest scorer, or nil when the
// type bucket is empty. Ties go to the element with the oldest CreatedAt
// (long-lived elements are preferred), then the smallest id so the result
// is deterministic.
func BestCandidate(detected domain.DetectedElement, actives []*domain.Element) *Candidate {
	bucket := make([]*domain.Element, 0, len(actives))
	for _, el := range actives {
		if el == nil || el.Type != detected.Type {
			continue
		}
		bucket = append(bucket, el)
	}
	if len(bucket) == 0 {
		return nil
	}
	sort.SliceStable(bucket, func(i, j int) bool {
		if !bucket[i].CreatedAt.Equal(bucket[j].CreatedAt) {
			return bucket[i].CreatedAt.Before(bucket[j].CreatedAt)
		}
		return strings.Compare(bucket[i].ID.String(), bucket[j].ID.String()) < 0
	})

	var best *Candidate
	for _, el := range bucket {
		score := Similarity(detected.Name, el.Name)
		if best == nil || score > best.Similarity {
			best = &Candidate{Element: el, Similarity: score}
		}
	}
	return best
}
