package handler

import (
	"net/http"
	"strings"
	"time"

	"kwakhanya/internal/app/storage"
	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/req"
	"kwakhanya/internal/pkg/resp"
)

const (
	// PresignedURLDuration is the validity window of generated URLs.
	PresignedURLDuration = 15 * time.Minute

	// MaxUploadSize caps uploaded images at 5 MB.
	MaxUploadSize int64 = 5 << 20
)

// PresignUploadInput defines the JSON input structure for generating upload URL.
type PresignUploadInput struct {
	Category string `json:"category"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// HandlePresignUploadURL creates an HTTP HandlerFunc to generate a time-limited,
// pre-signed URL for uploading a school or fleet image. School accounts only.
func HandlePresignUploadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, customErr := requireRole(r, jwt.RoleSchool); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !storage.ValidCategory(input.Category) || input.FileName == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if input.FileSize <= 0 || input.FileSize > MaxUploadSize {
			resp.RespondError(w, r, errs.NewError(errs.ErrRequestEntityTooLarge))
			return
		}

		if !strings.HasPrefix(input.MimeType, "image/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnsupportedMediaType))
			return
		}

		fileKey := storage.ObjectKey(input.Category, input.FileName)

		url, err := deps.StorageService.PresignUpload(
			r.Context(),
			fileKey,
			input.MimeType,
			input.FileSize,
			PresignedURLDuration,
		)

		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		data := map[string]any{
			"presignedUrl": url,
			"fileKey":      fileKey,
			"fileName":     input.FileName,
		}
		resp.RespondSuccess(w, r, data)
	}
}

// HandlePresignDownloadURL creates an HTTP HandlerFunc to generate a time-limited,
// pre-signed URL for viewing a stored image, and redirects to it.
func HandlePresignDownloadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileKey := r.URL.Query().Get("k")
		if fileKey == "" || strings.Contains(fileKey, "..") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		// Invoice archives are not publicly downloadable; image prefixes are.
		if strings.HasPrefix(fileKey, "invoices/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		url, err := deps.StorageService.PresignDownload(
			r.Context(),
			fileKey,
			PresignedURLDuration,
		)

		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}
