package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"jobcoach/internal/domain/listing"
)

type listingCacheKeyInput struct {
	SkillIDs      []string `json:"skill_ids"`
	LocationTerms []string `json:"location_terms"`
	ActiveOnly    bool     `json:"active_only"`
	PublishedOnly bool     `json:"published_only"`
	Limit         int      `json:"limit"`
	OrderBy       string   `json:"order_by"`
}

func normalizeLocationTerm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// ListingQueryCacheKey is stable under reordering of skill ids and location
// terms, since neither group's order affects the result set.
func ListingQueryCacheKey(f listing.Filter) string {
	skills := make([]string, 0, len(f.SkillIDs))
	for _, id := range f.SkillIDs {
		skills = append(skills, id.String())
	}
	sort.Strings(skills)

	locs := make([]string, 0, len(f.LocationTerms))
	for _, l := range f.LocationTerms {
		l = normalizeLocationTerm(l)
		if l == "" {
			continue
		}
		locs = append(locs, l)
	}
	sort.Strings(locs)

	in := listingCacheKeyInput{
		SkillIDs:      skills,
		LocationTerms: locs,
		ActiveOnly:    f.ActiveOnly,
		PublishedOnly: f.PublishedOnly,
		Limit:         f.Limit,
		OrderBy:       string(f.OrderBy),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "listings:query:" + hex.EncodeToString(sum[:])
}
