package repository

import (
	"context"
	"errors"
	"testing"

	"jobcoach/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	row     database.Row
	rows    database.Rows
	queries int
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	f.queries++
	return f.rows, nil
}
func (f *fakeDB) QueryRow(context.Context, string, ...any) database.Row {
	f.queries++
	return f.row
}

type scanFunc func(dest ...any) error

func (s scanFunc) Scan(dest ...any) error { return s(dest...) }

type sliceRows struct {
	scans []scanFunc
	i     int
}

func (r *sliceRows) Close()     {}
func (r *sliceRows) Next() bool { r.i++; return r.i <= len(r.scans) }
func (r *sliceRows) Err() error { return nil }
func (r *sliceRows) Scan(dest ...any) error {
	return r.scans[r.i-1](dest...)
}

func strPtr(s string) *string { return &s }

func TestPostgresCandidateProfileStore_NotFound(t *testing.T) {
	db := &fakeDB{row: scanFunc(func(...any) error { return pgx.ErrNoRows })}
	store := NewPostgresCandidateProfileStore(db)

	p, err := store.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPostgresCandidateProfileStore_NilUser(t *testing.T) {
	db := &fakeDB{}
	p, err := NewPostgresCandidateProfileStore(db).Get(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Zero(t, db.queries)
}

func TestPostgresCandidateProfileStore_Error(t *testing.T) {
	db := &fakeDB{row: scanFunc(func(...any) error { return errors.New("conn refused") })}

	_, err := NewPostgresCandidateProfileStore(db).Get(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestPostgresCandidateProfileStore_Found(t *testing.T) {
	userID, phpID := uuid.New(), uuid.New()
	two := 2

	db := &fakeDB{
		row: scanFunc(func(dest ...any) error {
			*dest[0].(*uuid.UUID) = userID
			*dest[1].(**string) = strPtr(`["Hanoi"]`)
			*dest[3].(**string) = strPtr("Backend developer")
			return nil
		}),
		rows: &sliceRows{scans: []scanFunc{
			func(dest ...any) error {
				*dest[0].(*uuid.UUID) = phpID
				*dest[1].(*string) = "PHP"
				*dest[2].(**int) = &two
				return nil
			},
		}},
	}

	p, err := NewPostgresCandidateProfileStore(db).Get(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, `["Hanoi"]`, *p.PreferredLocations)
	assert.Nil(t, p.Summary)
	assert.Equal(t, "Backend developer", *p.CurrentPosition)
	require.Len(t, p.Skills, 1)
	assert.Equal(t, "PHP", p.Skills[0].Name)
	assert.Equal(t, 2, *p.Skills[0].YearsExperience)
}
