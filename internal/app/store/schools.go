package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const schoolColumns = `id, user_id, name, description, address, city, contact_person, contact_number,
	logo_key, cover_image_key, rating::text, review_count, pass_rate, is_verified, created_at`

func scanSchool(row interface{ Scan(dest ...any) error }) (School, error) {
	var sc School
	err := row.Scan(
		&sc.ID,
		&sc.UserID,
		&sc.Name,
		&sc.Description,
		&sc.Address,
		&sc.City,
		&sc.ContactPerson,
		&sc.ContactNumber,
		&sc.LogoKey,
		&sc.CoverImageKey,
		&sc.Rating,
		&sc.ReviewCount,
		&sc.PassRate,
		&sc.IsVerified,
		&sc.CreatedAt,
	)
	return sc, err
}

// CreateSchoolParams are the insert values for a new school profile.
type CreateSchoolParams struct {
	UserID        int32
	Name          string
	Description   pgtype.Text
	Address       string
	City          string
	ContactPerson string
	ContactNumber string
	LogoKey       pgtype.Text
}

// CreateSchool inserts a new school profile owned by the given account.
func (s *Store) CreateSchool(ctx context.Context, arg CreateSchoolParams) (School, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO driving_schools (user_id, name, description, address, city, contact_person, contact_number, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+schoolColumns,
		arg.UserID, arg.Name, arg.Description, arg.Address, arg.City, arg.ContactPerson, arg.ContactNumber, arg.LogoKey,
	)
	return scanSchool(row)
}

// GetSchoolByID fetches one school by id.
func (s *Store) GetSchoolByID(ctx context.Context, id int32) (School, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+schoolColumns+` FROM driving_schools WHERE id = $1`, id)
	return scanSchool(row)
}

// GetSchoolByUserID fetches the school profile owned by the given account.
func (s *Store) GetSchoolByUserID(ctx context.Context, userID int32) (School, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+schoolColumns+` FROM driving_schools WHERE user_id = $1`, userID)
	return scanSchool(row)
}

// SearchSchoolsParams filter the school search. Empty values disable the
// corresponding filter.
type SearchSchoolsParams struct {
	// City is matched as a case-insensitive substring.
	City string

	// ServiceType restricts results to schools with at least one active
	// service of that licence code.
	ServiceType string
}

// SearchSchools returns schools matching the filters, best-rated first.
func (s *Store) SearchSchools(ctx context.Context, arg SearchSchoolsParams) ([]School, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+schoolColumns+`
		FROM driving_schools
		WHERE ($1 = '' OR city ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR EXISTS (
			SELECT 1 FROM services
			WHERE services.school_id = driving_schools.id
			  AND services.type = $2
			  AND services.is_active
		  ))
		ORDER BY rating DESC, review_count DESC`,
		arg.City, arg.ServiceType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows, scanSchool)
}

// CountSchools returns the total number of registered schools.
func (s *Store) CountSchools(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM driving_schools`).Scan(&n)
	return n, err
}

// collectRows drains a result set through the given scanner.
func collectRows[T any](rows pgx.Rows, scan func(interface{ Scan(dest ...any) error }) (T, error)) ([]T, error) {
	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
