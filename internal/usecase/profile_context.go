package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobcoach/internal/domain/candidate"

	"github.com/google/uuid"
)

// ProfileContext is the candidate profile with every optional field resolved.
// The zero value describes an anonymous caller.
type ProfileContext struct {
	SkillIDs           []uuid.UUID
	Skills             []string
	PreferredLocations []string
	Summary            string
	CurrentPosition    string
	CurrentCompany     string
	ExperienceLevel    string
}

func (c ProfileContext) HasAny() bool {
	return len(c.Skills) > 0 ||
		len(c.PreferredLocations) > 0 ||
		c.Summary != "" ||
		c.CurrentPosition != "" ||
		c.CurrentCompany != "" ||
		c.ExperienceLevel != ""
}

func BuildProfileContext(p *candidate.Profile) ProfileContext {
	out := ProfileContext{
		SkillIDs:           []uuid.UUID{},
		Skills:             []string{},
		PreferredLocations: []string{},
	}
	if p == nil {
		return out
	}

	for _, s := range p.Skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		if s.SkillID != uuid.Nil {
			out.SkillIDs = append(out.SkillIDs, s.SkillID)
		}
		out.Skills = append(out.Skills, skillSummary(name, s.YearsExperience))
	}

	out.PreferredLocations = NormalizePreferredLocations(p.PreferredLocations)
	out.Summary = deref(p.Summary)
	out.CurrentPosition = deref(p.CurrentPosition)
	out.CurrentCompany = deref(p.CurrentCompany)
	out.ExperienceLevel = deref(p.ExperienceLevel)
	return out
}

func skillSummary(name string, years *int) string {
	if years == nil || *years <= 0 {
		return name
	}
	return fmt.Sprintf("%s (%dy)", name, *years)
}

// NormalizePreferredLocations accepts the stored value as an encoded list
// (`["Hanoi","Da Nang"]`) or a bare string (`Hanoi`). A value that looks like a
// list but does not decode is kept whole as a single location. It never fails.
func NormalizePreferredLocations(raw *string) []string {
	out := []string{}
	if raw == nil {
		return out
	}
	s := strings.TrimSpace(*raw)
	if s == "" || s == "null" {
		return out
	}

	if strings.HasPrefix(s, "[") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			for _, it := range items {
				var v string
				switch t := it.(type) {
				case string:
					v = t
				case float64, bool:
					v = fmt.Sprint(t)
				}
				if v = strings.TrimSpace(v); v != "" {
					out = append(out, v)
				}
			}
			return out
		}
	}

	var single string
	if err := json.Unmarshal([]byte(s), &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			out = append(out, single)
		}
		return out
	}

	return append(out, s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
