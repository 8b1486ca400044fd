package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"kwakhanya/internal/app/db"
	"kwakhanya/internal/app/mailer"
	"kwakhanya/internal/app/store"
	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/logx"
	"kwakhanya/internal/pkg/req"
	"kwakhanya/internal/pkg/resp"
)

// recentBookingsLimit caps the bookings embedded in the school dashboard.
const recentBookingsLimit = 20

// schoolWithServices is a search result row.
type schoolWithServices struct {
	store.School
	Services []store.Service `json:"services"`
}

// HandleSearchSchools lists schools matching the location and service-type
// filters, best-rated first, with their active services embedded. The
// endpoint is public.
func HandleSearchSchools(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		serviceType := query.Get("serviceType")

		if serviceType != "" && !store.ValidServiceType(serviceType) {
			resp.RespondError(w, r, errs.NewError(errs.ErrServiceTypeInvalid))
			return
		}

		schools, err := deps.Store.SearchSchools(r.Context(), store.SearchSchoolsParams{
			City:        query.Get("location"),
			ServiceType: serviceType,
		})
		if err != nil {
			logx.Error(err, "school search query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		results := make([]schoolWithServices, 0, len(schools))
		for _, school := range schools {
			services, err := deps.Store.ListServicesBySchool(r.Context(), school.ID)
			if err != nil {
				logx.Error(err, "failed to list services for school", "school_id", school.ID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			results = append(results, schoolWithServices{School: school, Services: services})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"schools": results,
		})
	}
}

// HandleGetSchool returns one school with its services, instructors, and
// vehicles. The endpoint is public.
func HandleGetSchool(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := urlParamID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		school, err := deps.Store.GetSchoolByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				resp.RespondError(w, r, errs.NewError(errs.ErrSchoolNotFound))
				return
			}
			logx.Error(err, "failed to fetch school", "school_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		detail, customErr := loadSchoolDetail(r, deps, school)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, detail)
	}
}

// HandleManageSchool returns the authenticated school account's own profile
// with services, instructors, vehicles, and recent bookings.
func HandleManageSchool(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireRole(r, jwt.RoleSchool)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		school, err := deps.Store.GetSchoolByUserID(r.Context(), identity.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				resp.RespondError(w, r, errs.NewError(errs.ErrSchoolNotFound))
				return
			}
			logx.Error(err, "failed to fetch own school", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		detail, customErr := loadSchoolDetail(r, deps, school)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		bookings, err := deps.Store.ListBookingsBySchool(r.Context(), school.ID, recentBookingsLimit)
		if err != nil {
			logx.Error(err, "failed to list school bookings", "school_id", school.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		detail["bookings"] = bookings

		resp.RespondSuccess(w, r, detail)
	}
}

func loadSchoolDetail(r *http.Request, deps *AppDeps, school store.School) (map[string]any, *errs.CustomError) {
	services, err := deps.Store.ListServicesBySchool(r.Context(), school.ID)
	if err != nil {
		logx.Error(err, "failed to list services", "school_id", school.ID)
		return nil, errs.NewError(errs.ErrUnknown)
	}

	instructors, err := deps.Store.ListInstructorsBySchool(r.Context(), school.ID)
	if err != nil {
		logx.Error(err, "failed to list instructors", "school_id", school.ID)
		return nil, errs.NewError(errs.ErrUnknown)
	}

	vehicles, err := deps.Store.ListVehiclesBySchool(r.Context(), school.ID)
	if err != nil {
		logx.Error(err, "failed to list vehicles", "school_id", school.ID)
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return map[string]any{
		"school":      school,
		"services":    services,
		"instructors": instructors,
		"vehicles":    vehicles,
	}, nil
}

type CreateSchoolInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Address       string `json:"address"`
	City          string `json:"city"`
	ContactPerson string `json:"contactPerson"`
	ContactNumber string `json:"contactNumber"`
	LogoKey       string `json:"logoKey"`
}

// HandleCreateSchool registers the school profile for a school account and
// notifies the platform admin by email. One profile per account.
func HandleCreateSchool(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireRole(r, jwt.RoleSchool)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CreateSchoolInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" || input.Address == "" || input.City == "" ||
			input.ContactPerson == "" || input.ContactNumber == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		school, err := deps.Store.CreateSchool(r.Context(), store.CreateSchoolParams{
			UserID:        identity.UserID,
			Name:          input.Name,
			Description:   pgtype.Text{String: input.Description, Valid: input.Description != ""},
			Address:       input.Address,
			City:          input.City,
			ContactPerson: input.ContactPerson,
			ContactNumber: input.ContactNumber,
			LogoKey:       pgtype.Text{String: input.LogoKey, Valid: input.LogoKey != ""},
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrSchoolAlreadyExists))
				return
			}
			logx.Error(err, "failed to create school", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		go func(s store.School) {
			msg := mailer.SchoolRegistration(s, deps.Config.AdminEmail)
			if err := deps.Mailer.Send(msg); err != nil {
				logx.Error(err, "failed to send school registration notification", "school_id", s.ID)
			}
		}(school)

		resp.RespondSuccess(w, r, map[string]any{
			"school": school,
		})
	}
}
