package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategorySchoolLogo))
	assert.True(t, ValidCategory(CategoryVehiclePhoto))
	assert.False(t, ValidCategory("avatar"))
	assert.False(t, ValidCategory(""))
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(CategorySchoolLogo, "Logo.PNG")

	assert.True(t, strings.HasPrefix(key, "schools/logos/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	// No extension on the source file name.
	bare := ObjectKey(CategoryInstructorPhoto, "photo")
	assert.True(t, strings.HasPrefix(bare, "instructors/photos/"))
	assert.NotContains(t, bare[len("instructors/photos/"):], ".")
}

func TestObjectKeysAreUnique(t *testing.T) {
	a := ObjectKey(CategoryVehiclePhoto, "car.jpg")
	b := ObjectKey(CategoryVehiclePhoto, "car.jpg")

	assert.NotEqual(t, a, b)
}

func TestInvoiceKey(t *testing.T) {
	assert.Equal(t, "invoices/KDT-202506-000007.html", InvoiceKey("KDT-202506-000007"))
}
