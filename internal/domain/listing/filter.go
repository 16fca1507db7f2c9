package listing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Order string

const OrderPublishedDesc Order = "published_desc"

// Filter is the retrieval contract handed to a listing repository.
// Skill ids match when the listing shares at least one of them; location
// terms match case-insensitively against city, province or free-text
// location. The two groups compose with AND, terms within a group with OR.
// An empty group does not constrain.
type Filter struct {
	SkillIDs      []uuid.UUID `json:"skill_ids,omitempty"`
	LocationTerms []string    `json:"location_terms,omitempty"`
	ActiveOnly    bool        `json:"active_only"`
	PublishedOnly bool        `json:"published_only"`
	Limit         int         `json:"limit"`
	OrderBy       Order       `json:"order_by"`
}

// Matches reports whether l satisfies f at time now. Ordering and Limit are
// not considered.
func (f Filter) Matches(l Listing, now time.Time) bool {
	if f.ActiveOnly && !l.IsActive {
		return false
	}
	if f.PublishedOnly && (!l.IsPublished || l.PublishedAt.IsZero() || l.PublishedAt.After(now)) {
		return false
	}

	if len(f.SkillIDs) > 0 {
		want := make(map[uuid.UUID]struct{}, len(f.SkillIDs))
		for _, id := range f.SkillIDs {
			want[id] = struct{}{}
		}
		shared := false
		for _, s := range l.Skills {
			if _, ok := want[s.SkillID]; ok {
				shared = true
				break
			}
		}
		if !shared {
			return false
		}
	}

	if len(f.LocationTerms) > 0 {
		fields := []string{strings.ToLower(l.City), strings.ToLower(l.Province), strings.ToLower(l.Location)}
		hit, terms := false, 0
		for _, term := range f.LocationTerms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			terms++
			for _, field := range fields {
				if strings.Contains(field, term) {
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if terms > 0 && !hit {
			return false
		}
	}

	return true
}
