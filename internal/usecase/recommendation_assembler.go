package usecase

import (
	"time"

	"jobcoach/internal/domain/listing"
	"jobcoach/internal/domain/matching"

	"github.com/google/uuid"
)

type RecommendedJob struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	CompanyID       *uuid.UUID `json:"company_id"`
	CompanyName     string     `json:"company_name"`
	City            string     `json:"city"`
	Province        string     `json:"province"`
	Location        string     `json:"location"`
	SalaryMin       *int64     `json:"salary_min"`
	SalaryMax       *int64     `json:"salary_max"`
	ExperienceLevel string     `json:"experience_level"`
	PublishedAt     time.Time  `json:"published_at"`
	Score           int        `json:"score"`
	MatchedSkills   []string   `json:"matched_skills"`
}

type CompanySummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	City     string    `json:"city"`
	Province string    `json:"province"`
	Rating   *float64  `json:"rating"`
	Verified bool      `json:"verified"`
}

type Recommendations struct {
	Jobs      []RecommendedJob `json:"jobs"`
	Companies []CompanySummary `json:"companies"`
}

// AssembleRecommendations projects the top scored listings. Companies are
// unique by id in first-seen order.
func AssembleRecommendations(top []matching.Scored) Recommendations {
	out := Recommendations{
		Jobs:      make([]RecommendedJob, 0, len(top)),
		Companies: make([]CompanySummary, 0, len(top)),
	}
	seen := make(map[uuid.UUID]struct{}, len(top))

	for _, s := range top {
		l := s.Listing
		job := RecommendedJob{
			ID:              l.ID,
			Title:           l.Title,
			City:            l.City,
			Province:        l.Province,
			Location:        l.Location,
			SalaryMin:       l.SalaryMin,
			SalaryMax:       l.SalaryMax,
			ExperienceLevel: l.ExperienceLevel,
			PublishedAt:     l.PublishedAt,
			Score:           s.Score,
			MatchedSkills:   matchedSkillNames(l.Skills, s.MatchedSkillIDs),
		}

		if c := l.Company; c != nil && c.ID != uuid.Nil {
			id := c.ID
			job.CompanyID = &id
			job.CompanyName = c.Name
			if _, ok := seen[c.ID]; !ok {
				seen[c.ID] = struct{}{}
				out.Companies = append(out.Companies, companySummary(*c))
			}
		}

		out.Jobs = append(out.Jobs, job)
	}
	return out
}

// matchedSkillNames keeps the listing's own skill order.
func matchedSkillNames(skills []listing.Skill, matched []uuid.UUID) []string {
	want := make(map[uuid.UUID]struct{}, len(matched))
	for _, id := range matched {
		want[id] = struct{}{}
	}
	out := make([]string, 0, len(matched))
	for _, s := range skills {
		if _, ok := want[s.SkillID]; !ok {
			continue
		}
		delete(want, s.SkillID)
		out = append(out, s.Name)
	}
	return out
}

func companySummary(c listing.Company) CompanySummary {
	return CompanySummary{
		ID:       c.ID,
		Name:     c.Name,
		City:     c.City,
		Province: c.Province,
		Rating:   c.Rating,
		Verified: c.Verified,
	}
}
