package usecase

import (
	"reflect"
	"testing"

	"jobcoach/internal/domain/candidate"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNormalizePreferredLocations(t *testing.T) {
	cases := []struct {
		name string
		raw  *string
		want []string
	}{
		{"nil", nil, []string{}},
		{"empty", strPtr("  "), []string{}},
		{"json null", strPtr("null"), []string{}},
		{"encoded list", strPtr(`["Hanoi"," Da Nang ",""]`), []string{"Hanoi", "Da Nang"}},
		{"bare string", strPtr("Hanoi"), []string{"Hanoi"}},
		{"encoded string", strPtr(`"Ho Chi Minh"`), []string{"Ho Chi Minh"}},
		{"mixed list", strPtr(`["Hanoi", 7, true, null]`), []string{"Hanoi", "7", "true"}},
		{"broken list", strPtr(`["Hanoi"`), []string{`["Hanoi"`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePreferredLocations(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestBuildProfileContext_Nil(t *testing.T) {
	pc := BuildProfileContext(nil)
	if pc.HasAny() {
		t.Fatalf("expected empty context")
	}
	if pc.Skills == nil || pc.SkillIDs == nil || pc.PreferredLocations == nil {
		t.Fatalf("expected non-nil slices")
	}
}

func TestBuildProfileContext_Skills(t *testing.T) {
	goID, sqlID := uuid.New(), uuid.New()
	pc := BuildProfileContext(&candidate.Profile{
		UserID: uuid.New(),
		Skills: []candidate.Skill{
			{SkillID: goID, Name: "Go", YearsExperience: intPtr(3)},
			{SkillID: sqlID, Name: "PostgreSQL"},
			{SkillID: uuid.New(), Name: "Docker", YearsExperience: intPtr(0)},
			{SkillID: uuid.New(), Name: "  "},
		},
		PreferredLocations: strPtr(`["Hanoi"]`),
		CurrentPosition:    strPtr(" Backend Engineer "),
	})

	wantSkills := []string{"Go (3y)", "PostgreSQL", "Docker"}
	if !reflect.DeepEqual(pc.Skills, wantSkills) {
		t.Fatalf("expected %v, got %v", wantSkills, pc.Skills)
	}
	if len(pc.SkillIDs) != 3 || pc.SkillIDs[0] != goID || pc.SkillIDs[1] != sqlID {
		t.Fatalf("unexpected skill ids: %v", pc.SkillIDs)
	}
	if !reflect.DeepEqual(pc.PreferredLocations, []string{"Hanoi"}) {
		t.Fatalf("unexpected locations: %v", pc.PreferredLocations)
	}
	if pc.CurrentPosition != "Backend Engineer" {
		t.Fatalf("expected trimmed position, got %q", pc.CurrentPosition)
	}
	if !pc.HasAny() {
		t.Fatalf("expected HasAny")
	}
}
