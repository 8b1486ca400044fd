/*
Package storage handles object storage for the marketplace: school logos and
cover images, instructor and vehicle photos, and archived invoice documents.

Browser uploads go through presigned URLs so file bytes never pass through
the API server; invoice archives are uploaded server-side.
*/
package storage

import (
	"context"
	"strings"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService defines the public interface for the file storage service.
type StorageService interface {
	// PresignUpload generates a pre-signed URL for uploading a file.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a file.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// UploadHTML stores an HTML document under the given key.
	UploadHTML(ctx context.Context, key string, body string) error

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error

	// GetObjectMetadata retrieves the object's metadata.
	GetObjectMetadata(ctx context.Context, key string) (map[string]string, error)
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}

// Upload categories. Each maps to a key prefix in the bucket.
const (
	CategorySchoolLogo      = "school-logo"
	CategorySchoolCover     = "school-cover"
	CategoryInstructorPhoto = "instructor-photo"
	CategoryLicensePhoto    = "license-photo"
	CategoryVehiclePhoto    = "vehicle-photo"
)

var categoryPrefixes = map[string]string{
	CategorySchoolLogo:      "schools/logos",
	CategorySchoolCover:     "schools/covers",
	CategoryInstructorPhoto: "instructors/photos",
	CategoryLicensePhoto:    "instructors/licenses",
	CategoryVehiclePhoto:    "vehicles/photos",
}

// ValidCategory reports whether the upload category is one the platform accepts.
func ValidCategory(category string) bool {
	_, ok := categoryPrefixes[category]
	return ok
}

// ObjectKey builds the bucket key for an upload: the category prefix plus a
// random file name that keeps the original extension.
func ObjectKey(category, fileName string) string {
	prefix := categoryPrefixes[category]
	ext := ""
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = strings.ToLower(fileName[i:])
	}
	return prefix + "/" + newFileID() + ext
}

// InvoiceKey builds the archive key for a rendered invoice document.
func InvoiceKey(invoiceNumber string) string {
	return "invoices/" + invoiceNumber + ".html"
}
