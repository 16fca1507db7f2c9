package matching

import (
	"sort"

	"jobcoach/internal/domain/listing"

	"github.com/google/uuid"
)

const (
	// RetrievalWindow bounds how many of the most recently published
	// listings are considered per request.
	RetrievalWindow = 30
	TopN            = 5
)

type Scored struct {
	Listing         listing.Listing
	Score           int
	MatchedSkillIDs []uuid.UUID
}

// RetrievalFilter builds the listing filter for a candidate. Nil skill ids
// and blank locations are ignored.
func RetrievalFilter(skillIDs []uuid.UUID, locations []string) listing.Filter {
	f := listing.Filter{
		ActiveOnly:    true,
		PublishedOnly: true,
		Limit:         RetrievalWindow,
		OrderBy:       listing.OrderPublishedDesc,
	}
	for _, id := range uniqueIDs(skillIDs) {
		f.SkillIDs = append(f.SkillIDs, id)
	}
	for _, loc := range locations {
		if loc == "" {
			continue
		}
		f.LocationTerms = append(f.LocationTerms, loc)
	}
	return f
}

// Score ranks listings by the number of skill ids they share with the
// candidate. The sort is stable, so ties keep retrieval order.
func Score(candidateSkillIDs []uuid.UUID, listings []listing.Listing) []Scored {
	have := make(map[uuid.UUID]struct{}, len(candidateSkillIDs))
	for _, id := range candidateSkillIDs {
		if id == uuid.Nil {
			continue
		}
		have[id] = struct{}{}
	}

	out := make([]Scored, 0, len(listings))
	for _, l := range listings {
		matched := make([]uuid.UUID, 0)
		for _, id := range l.SkillIDs() {
			if _, ok := have[id]; ok {
				matched = append(matched, id)
			}
		}
		out = append(out, Scored{Listing: l, Score: len(matched), MatchedSkillIDs: matched})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func Top(scored []Scored, n int) []Scored {
	if n < 0 {
		n = 0
	}
	if len(scored) < n {
		n = len(scored)
	}
	return scored[:n]
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
