package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobcoach/internal/database"
	"jobcoach/internal/domain/listing"

	"github.com/google/uuid"
)

type ListingRepository interface {
	Query(ctx context.Context, f listing.Filter) ([]listing.Listing, error)
}

type PostgresListingRepository struct {
	db database.DB
}

func NewPostgresListingRepository(db database.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

const listingSelect = `SELECT j.id, COALESCE(j.title, ''), COALESCE(j.city, ''), COALESCE(j.province, ''), COALESCE(j.location, ''),
	j.salary_min, j.salary_max, COALESCE(j.experience_level, ''), COALESCE(j.published_at, j.created_at), j.is_active, j.is_published,
	c.id, COALESCE(c.name, ''), COALESCE(c.city, ''), COALESCE(c.province, ''), c.rating, COALESCE(c.is_verified, false)
 FROM job_listings j
 LEFT JOIN companies c ON c.id = j.company_id`

func (r *PostgresListingRepository) Query(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	query, args := buildListingQuery(f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]listing.Listing, 0)
	for rows.Next() {
		var (
			l         listing.Listing
			companyID *uuid.UUID
			company   listing.Company
		)
		if err := rows.Scan(
			&l.ID, &l.Title, &l.City, &l.Province, &l.Location,
			&l.SalaryMin, &l.SalaryMax, &l.ExperienceLevel, &l.PublishedAt, &l.IsActive, &l.IsPublished,
			&companyID, &company.Name, &company.City, &company.Province, &company.Rating, &company.Verified,
		); err != nil {
			return nil, err
		}
		if companyID != nil {
			company.ID = *companyID
			l.Company = &company
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachSkills(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresListingRepository) attachSkills(ctx context.Context, ls []listing.Listing) error {
	if len(ls) == 0 {
		return nil
	}

	ids := make([]string, 0, len(ls))
	idx := make(map[uuid.UUID]int, len(ls))
	for i, l := range ls {
		ids = append(ids, l.ID.String())
		idx[l.ID] = i
	}

	rows, err := r.db.Query(ctx,
		`SELECT ls.listing_id, ls.skill_id, s.name
		 FROM job_listing_skills ls
		 JOIN skills s ON s.id = ls.skill_id
		 WHERE ls.listing_id = ANY($1::uuid[])
		 ORDER BY ls.listing_id, ls.sort_order ASC, s.name ASC`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			listingID uuid.UUID
			sk        listing.Skill
		)
		if err := rows.Scan(&listingID, &sk.SkillID, &sk.Name); err != nil {
			return err
		}
		if i, ok := idx[listingID]; ok {
			ls[i].Skills = append(ls[i].Skills, sk)
		}
	}
	return rows.Err()
}

func buildListingQuery(f listing.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ActiveOnly {
		where = append(where, "j.is_active = true")
	}
	if f.PublishedOnly {
		where = append(where, "j.is_published = true", "j.published_at IS NOT NULL", "j.published_at <= "+arg(time.Now().UTC()))
	}

	if len(f.SkillIDs) > 0 {
		ids := make([]string, 0, len(f.SkillIDs))
		for _, id := range f.SkillIDs {
			ids = append(ids, id.String())
		}
		where = append(where, `EXISTS (SELECT 1 FROM job_listing_skills fs WHERE fs.listing_id = j.id AND fs.skill_id = ANY(`+arg(ids)+`::uuid[]))`)
	}

	var locs []string
	for _, term := range f.LocationTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		p := arg("%" + escapeLike(term) + "%")
		locs = append(locs, fmt.Sprintf("j.city ILIKE %[1]s OR j.province ILIKE %[1]s OR j.location ILIKE %[1]s", p))
	}
	if len(locs) > 0 {
		where = append(where, "("+strings.Join(locs, " OR ")+")")
	}

	var b strings.Builder
	b.WriteString(listingSelect)
	if len(where) > 0 {
		b.WriteString("\n WHERE ")
		b.WriteString(strings.Join(where, "\n   AND "))
	}
	b.WriteString("\n ORDER BY ")
	switch f.OrderBy {
	case listing.OrderPublishedDesc:
		b.WriteString("j.published_at DESC NULLS LAST, j.id ASC")
	default:
		b.WriteString("j.id ASC")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	b.WriteString("\n LIMIT ")
	b.WriteString(arg(limit))

	return b.String(), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
