package handler

import (
	"net/http"

	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/logx"
	"kwakhanya/internal/pkg/resp"
)

// HandleAdminStats returns platform totals for the operator dashboard.
func HandleAdminStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, customErr := requireRole(r, jwt.RoleAdmin); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		users, err := deps.Store.CountUsers(r.Context())
		if err != nil {
			logx.Error(err, "failed to count users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		schools, err := deps.Store.CountSchools(r.Context())
		if err != nil {
			logx.Error(err, "failed to count schools")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		bookings, err := deps.Store.CountBookings(r.Context())
		if err != nil {
			logx.Error(err, "failed to count bookings")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"totalUsers":    users,
			"totalSchools":  schools,
			"totalBookings": bookings,
		})
	}
}
