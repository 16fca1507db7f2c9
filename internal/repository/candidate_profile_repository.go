package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobcoach/internal/database"
	"jobcoach/internal/domain/candidate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CandidateProfileStore returns nil, nil when the user has no profile.
type CandidateProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*candidate.Profile, error)
}

type PostgresCandidateProfileStore struct {
	db database.DB
}

func NewPostgresCandidateProfileStore(db database.DB) *PostgresCandidateProfileStore {
	return &PostgresCandidateProfileStore{db: db}
}

func (r *PostgresCandidateProfileStore) Get(ctx context.Context, userID uuid.UUID) (*candidate.Profile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	row := r.db.QueryRow(ctx,
		`SELECT p.user_id, p.preferred_locations, p.summary, p.current_position, p.current_company, p.experience_level
		 FROM candidate_profiles p
		 WHERE p.user_id = $1`,
		userID,
	)

	p := candidate.Profile{}
	if err := row.Scan(&p.UserID, &p.PreferredLocations, &p.Summary, &p.CurrentPosition, &p.CurrentCompany, &p.ExperienceLevel); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT cs.skill_id, s.name, cs.years_experience
		 FROM candidate_skills cs
		 JOIN skills s ON s.id = cs.skill_id
		 WHERE cs.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s candidate.Skill
		if err := rows.Scan(&s.SkillID, &s.Name, &s.YearsExperience); err != nil {
			return nil, err
		}
		p.Skills = append(p.Skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}
