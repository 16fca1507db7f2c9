package usecase

import (
	"bytes"
	"encoding/json"
	"strings"

	"jobcoach/internal/domain/chat"
)

const personaInstructions = `You are a career assistant for a job platform. You help candidates with career advice, CV review, interview coaching and job recommendations.

Rules:
- Use only the data supplied in the system data message. Never invent companies, jobs, salaries or requirements that are not in that data.
- When recommending jobs, propose 3 to 5 specific roles. For each one give the location when it is known, why it fits the candidate's skills and experience, which skills are missing, and concrete next steps.
- If the data holds fewer suitable jobs than that, say so instead of padding the list.
- Keep answers concise and actionable. Reply in the language the candidate writes in.`

const clarifyInstructions = `No candidate profile is available. Before recommending anything, ask clarifying questions about the candidate's skills, years of experience, preferred locations and the kind of role they want.`

const groundingPreamble = "Reference data for this conversation (JSON). Treat it as the only source of facts about jobs and companies:\n"

type groundingCandidate struct {
	Skills             []string `json:"skills"`
	PreferredLocations []string `json:"preferred_locations"`
	Summary            string   `json:"summary"`
	CurrentPosition    string   `json:"current_position"`
	CurrentCompany     string   `json:"current_company"`
	ExperienceLevel    string   `json:"experience_level"`
}

type groundingPayload struct {
	Candidate            groundingCandidate `json:"candidate"`
	RecommendedJobs      []RecommendedJob   `json:"recommended_jobs"`
	RecommendedCompanies []CompanySummary   `json:"recommended_companies"`
}

// ComposeConversation returns the persona message, the grounding message and
// then the caller history with every system-role message removed.
func ComposeConversation(pc ProfileContext, recs Recommendations, history []chat.Message) ([]chat.Message, error) {
	grounding, err := GroundingMessage(pc, recs)
	if err != nil {
		return nil, err
	}

	caller := StripSystemMessages(history)
	out := make([]chat.Message, 0, len(caller)+2)
	out = append(out,
		chat.Message{Role: chat.RoleSystem, Content: PersonaMessage(pc)},
		chat.Message{Role: chat.RoleSystem, Content: grounding},
	)
	return append(out, caller...), nil
}

func PersonaMessage(pc ProfileContext) string {
	var b strings.Builder
	b.WriteString(personaInstructions)
	b.WriteString("\n\n")
	if !pc.HasAny() {
		b.WriteString(clarifyInstructions)
		return b.String()
	}

	b.WriteString("Candidate profile:")
	line := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString("\n- ")
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
	}
	line("Skills", strings.Join(pc.Skills, ", "))
	line("Preferred locations", strings.Join(pc.PreferredLocations, ", "))
	line("Current position", pc.CurrentPosition)
	line("Current company", pc.CurrentCompany)
	line("Experience level", pc.ExperienceLevel)
	line("Summary", pc.Summary)
	return b.String()
}

// GroundingMessage serializes the grounding payload without HTML escaping so
// that text reaches the model exactly as stored.
func GroundingMessage(pc ProfileContext, recs Recommendations) (string, error) {
	p := groundingPayload{
		Candidate: groundingCandidate{
			Skills:             nonNil(pc.Skills),
			PreferredLocations: nonNil(pc.PreferredLocations),
			Summary:            pc.Summary,
			CurrentPosition:    pc.CurrentPosition,
			CurrentCompany:     pc.CurrentCompany,
			ExperienceLevel:    pc.ExperienceLevel,
		},
		RecommendedJobs:      recs.Jobs,
		RecommendedCompanies: recs.Companies,
	}
	if p.RecommendedJobs == nil {
		p.RecommendedJobs = []RecommendedJob{}
	}
	if p.RecommendedCompanies == nil {
		p.RecommendedCompanies = []CompanySummary{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return groundingPreamble + strings.TrimRight(buf.String(), "\n"), nil
}

func StripSystemMessages(history []chat.Message) []chat.Message {
	out := make([]chat.Message, 0, len(history))
	for _, m := range history {
		if m.Role == chat.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
