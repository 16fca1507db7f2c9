package candidate

import "github.com/google/uuid"

type Skill struct {
	SkillID         uuid.UUID
	Name            string
	YearsExperience *int
}

// Profile is the stored candidate record. Preferred locations are kept as
// stored, which may be an encoded list or a bare string.
type Profile struct {
	UserID             uuid.UUID
	Skills             []Skill
	PreferredLocations *string
	Summary            *string
	CurrentPosition    *string
	CurrentCompany     *string
	ExperienceLevel    *string
}
