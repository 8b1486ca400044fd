package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Licence codes a service can prepare for.
const (
	ServiceTypeCode8  = "code8"
	ServiceTypeCode10 = "code10"
	ServiceTypeCode14 = "code14"
)

// ValidServiceType reports whether t is a known licence code.
func ValidServiceType(t string) bool {
	return t == ServiceTypeCode8 || t == ServiceTypeCode10 || t == ServiceTypeCode14
}

// ValidTransmission reports whether t is a known vehicle transmission.
func ValidTransmission(t string) bool {
	return t == "automatic" || t == "manual"
}

const serviceColumns = `id, school_id, name, description, price::text, type, lesson_count,
	duration_minutes, test_included, is_active, created_at`

func scanService(row interface{ Scan(dest ...any) error }) (Service, error) {
	var sv Service
	err := row.Scan(
		&sv.ID,
		&sv.SchoolID,
		&sv.Name,
		&sv.Description,
		&sv.Price,
		&sv.Type,
		&sv.LessonCount,
		&sv.DurationMinutes,
		&sv.TestIncluded,
		&sv.IsActive,
		&sv.CreatedAt,
	)
	return sv, err
}

// CreateServiceParams are the insert values for a new service.
type CreateServiceParams struct {
	SchoolID        int32
	Name            string
	Description     pgtype.Text
	Price           string
	Type            string
	LessonCount     pgtype.Int4
	DurationMinutes pgtype.Int4
	TestIncluded    bool
}

// CreateService inserts a new service offering for a school.
func (s *Store) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO services (school_id, name, description, price, type, lesson_count, duration_minutes, test_included)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
		RETURNING `+serviceColumns,
		arg.SchoolID, arg.Name, arg.Description, arg.Price, arg.Type, arg.LessonCount, arg.DurationMinutes, arg.TestIncluded,
	)
	return scanService(row)
}

// GetServiceByID fetches one service by id.
func (s *Store) GetServiceByID(ctx context.Context, id int32) (Service, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	return scanService(row)
}

// ListServicesBySchool returns a school's active services.
func (s *Store) ListServicesBySchool(ctx context.Context, schoolID int32) ([]Service, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE school_id = $1 AND is_active ORDER BY price`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows, scanService)
}

const instructorColumns = `id, school_id, name, license_number, license_expiry, id_number,
	photo_key, license_photo_key, is_active, created_at`

func scanInstructor(row interface{ Scan(dest ...any) error }) (Instructor, error) {
	var in Instructor
	err := row.Scan(
		&in.ID,
		&in.SchoolID,
		&in.Name,
		&in.LicenseNumber,
		&in.LicenseExpiry,
		&in.IDNumber,
		&in.PhotoKey,
		&in.LicensePhotoKey,
		&in.IsActive,
		&in.CreatedAt,
	)
	return in, err
}

// CreateInstructorParams are the insert values for a new instructor.
type CreateInstructorParams struct {
	SchoolID        int32
	Name            string
	LicenseNumber   string
	LicenseExpiry   pgtype.Timestamptz
	IDNumber        string
	PhotoKey        pgtype.Text
	LicensePhotoKey pgtype.Text
}

// CreateInstructor inserts a new instructor for a school.
func (s *Store) CreateInstructor(ctx context.Context, arg CreateInstructorParams) (Instructor, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO instructors (school_id, name, license_number, license_expiry, id_number, photo_key, license_photo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+instructorColumns,
		arg.SchoolID, arg.Name, arg.LicenseNumber, arg.LicenseExpiry, arg.IDNumber, arg.PhotoKey, arg.LicensePhotoKey,
	)
	return scanInstructor(row)
}

// ListInstructorsBySchool returns a school's active instructors.
func (s *Store) ListInstructorsBySchool(ctx context.Context, schoolID int32) ([]Instructor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+instructorColumns+` FROM instructors WHERE school_id = $1 AND is_active ORDER BY name`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows, scanInstructor)
}

const vehicleColumns = `id, school_id, brand, model, year, plate_number, transmission, photo_key, is_active, created_at`

func scanVehicle(row interface{ Scan(dest ...any) error }) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID,
		&v.SchoolID,
		&v.Brand,
		&v.Model,
		&v.Year,
		&v.PlateNumber,
		&v.Transmission,
		&v.PhotoKey,
		&v.IsActive,
		&v.CreatedAt,
	)
	return v, err
}

// CreateVehicleParams are the insert values for a new vehicle.
type CreateVehicleParams struct {
	SchoolID     int32
	Brand        string
	Model        string
	Year         pgtype.Int4
	PlateNumber  string
	Transmission string
	PhotoKey     pgtype.Text
}

// CreateVehicle inserts a new vehicle for a school.
func (s *Store) CreateVehicle(ctx context.Context, arg CreateVehicleParams) (Vehicle, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO vehicles (school_id, brand, model, year, plate_number, transmission, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+vehicleColumns,
		arg.SchoolID, arg.Brand, arg.Model, arg.Year, arg.PlateNumber, arg.Transmission, arg.PhotoKey,
	)
	return scanVehicle(row)
}

// ListVehiclesBySchool returns a school's active vehicles.
func (s *Store) ListVehiclesBySchool(ctx context.Context, schoolID int32) ([]Vehicle, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE school_id = $1 AND is_active ORDER BY brand, model`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows, scanVehicle)
}
