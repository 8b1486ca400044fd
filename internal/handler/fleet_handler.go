package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"kwakhanya/internal/app/store"
	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/logx"
	"kwakhanya/internal/pkg/req"
	"kwakhanya/internal/pkg/resp"
)

// ownSchool resolves the school profile owned by the authenticated school
// account.
func ownSchool(r *http.Request, deps *AppDeps) (store.School, *errs.CustomError) {
	identity, customErr := requireRole(r, jwt.RoleSchool)
	if customErr != nil {
		return store.School{}, customErr
	}

	school, err := deps.Store.GetSchoolByUserID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.School{}, errs.NewError(errs.ErrSchoolNotFound)
		}
		logx.Error(err, "failed to resolve own school", "user_id", identity.UserID)
		return store.School{}, errs.NewError(errs.ErrUnknown)
	}
	return school, nil
}

type CreateServiceInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	Type            string `json:"type"`
	LessonCount     int32  `json:"lessonCount"`
	DurationMinutes int32  `json:"durationMinutes"`
	TestIncluded    bool   `json:"testIncluded"`
}

// HandleCreateService attaches a new lesson package to the account's school.
func HandleCreateService(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		school, customErr := ownSchool(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CreateServiceInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" || input.Price == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if !store.ValidServiceType(input.Type) {
			resp.RespondError(w, r, errs.NewError(errs.ErrServiceTypeInvalid))
			return
		}

		service, err := deps.Store.CreateService(r.Context(), store.CreateServiceParams{
			SchoolID:        school.ID,
			Name:            input.Name,
			Description:     pgtype.Text{String: input.Description, Valid: input.Description != ""},
			Price:           input.Price,
			Type:            input.Type,
			LessonCount:     pgtype.Int4{Int32: input.LessonCount, Valid: input.LessonCount > 0},
			DurationMinutes: pgtype.Int4{Int32: input.DurationMinutes, Valid: input.DurationMinutes > 0},
			TestIncluded:    input.TestIncluded,
		})
		if err != nil {
			logx.Error(err, "failed to create service", "school_id", school.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"service": service,
		})
	}
}

type CreateInstructorInput struct {
	Name            string `json:"name"`
	LicenseNumber   string `json:"licenseNumber"`
	LicenseExpiry   string `json:"licenseExpiry"`
	IDNumber        string `json:"idNumber"`
	PhotoKey        string `json:"photoKey"`
	LicensePhotoKey string `json:"licensePhotoKey"`
}

// HandleCreateInstructor attaches a new instructor to the account's school.
func HandleCreateInstructor(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		school, customErr := ownSchool(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CreateInstructorInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" || input.LicenseNumber == "" || input.IDNumber == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		expiry, err := time.Parse("2006-01-02", input.LicenseExpiry)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		instructor, err := deps.Store.CreateInstructor(r.Context(), store.CreateInstructorParams{
			SchoolID:        school.ID,
			Name:            input.Name,
			LicenseNumber:   input.LicenseNumber,
			LicenseExpiry:   pgtype.Timestamptz{Time: expiry, Valid: true},
			IDNumber:        input.IDNumber,
			PhotoKey:        pgtype.Text{String: input.PhotoKey, Valid: input.PhotoKey != ""},
			LicensePhotoKey: pgtype.Text{String: input.LicensePhotoKey, Valid: input.LicensePhotoKey != ""},
		})
		if err != nil {
			logx.Error(err, "failed to create instructor", "school_id", school.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"instructor": instructor,
		})
	}
}

type CreateVehicleInput struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int32  `json:"year"`
	PlateNumber  string `json:"plateNumber"`
	Transmission string `json:"transmission"`
	PhotoKey     string `json:"photoKey"`
}

// HandleCreateVehicle attaches a new vehicle to the account's school.
func HandleCreateVehicle(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		school, customErr := ownSchool(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CreateVehicleInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Brand == "" || input.Model == "" || input.PlateNumber == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if !store.ValidTransmission(input.Transmission) {
			resp.RespondError(w, r, errs.NewError(errs.ErrTransmissionInvalid))
			return
		}

		vehicle, err := deps.Store.CreateVehicle(r.Context(), store.CreateVehicleParams{
			SchoolID:     school.ID,
			Brand:        input.Brand,
			Model:        input.Model,
			Year:         pgtype.Int4{Int32: input.Year, Valid: input.Year > 0},
			PlateNumber:  input.PlateNumber,
			Transmission: input.Transmission,
			PhotoKey:     pgtype.Text{String: input.PhotoKey, Valid: input.PhotoKey != ""},
		})
		if err != nil {
			logx.Error(err, "failed to create vehicle", "school_id", school.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"vehicle": vehicle,
		})
	}
}
