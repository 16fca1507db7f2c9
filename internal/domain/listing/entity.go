package listing

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	City     string    `json:"city"`
	Province string    `json:"province"`
	Rating   *float64  `json:"rating"`
	Verified bool      `json:"verified"`
}

type Skill struct {
	SkillID uuid.UUID `json:"skill_id"`
	Name    string    `json:"name"`
}

type Listing struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Company         *Company  `json:"company"`
	City            string    `json:"city"`
	Province        string    `json:"province"`
	Location        string    `json:"location"`
	Skills          []Skill   `json:"skills"`
	SalaryMin       *int64    `json:"salary_min"`
	SalaryMax       *int64    `json:"salary_max"`
	ExperienceLevel string    `json:"experience_level"`
	PublishedAt     time.Time `json:"published_at"`
	IsActive        bool      `json:"is_active"`
	IsPublished     bool      `json:"is_published"`
}

// SkillIDs returns the listing's skill ids in native order, without duplicates.
func (l Listing) SkillIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(l.Skills))
	seen := make(map[uuid.UUID]struct{}, len(l.Skills))
	for _, s := range l.Skills {
		if s.SkillID == uuid.Nil {
			continue
		}
		if _, ok := seen[s.SkillID]; ok {
			continue
		}
		seen[s.SkillID] = struct{}{}
		out = append(out, s.SkillID)
	}
	return out
}
