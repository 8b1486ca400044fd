package handler

import (
	"net/http"

	"kwakhanya/internal/app/store"
	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/logx"
	"kwakhanya/internal/pkg/req"
	"kwakhanya/internal/pkg/resp"

	"github.com/jackc/pgx/v5/pgtype"
)

// HandleGetUserProfile retrieves the current authenticated account's profile.
func HandleGetUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireAuth(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Store.GetUserByID(r.Context(), identity.UserID)
		if err != nil {
			logx.Warn("get_user_profile: user not found", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": user,
		})
	}
}

type UpdateProfileInput struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// HandleUpdateUserProfile updates the account's contact details.
func HandleUpdateUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, customErr := requireAuth(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.FullName == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		user, err := deps.Store.UpdateUserContact(r.Context(), store.UpdateUserContactParams{
			ID:          identity.UserID,
			FullName:    input.FullName,
			PhoneNumber: pgtype.Text{String: input.PhoneNumber, Valid: input.PhoneNumber != ""},
			Address:     pgtype.Text{String: input.Address, Valid: input.Address != ""},
		})
		if err != nil {
			logx.Error(err, "failed to update user profile", "user_id", identity.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": user,
		})
	}
}
