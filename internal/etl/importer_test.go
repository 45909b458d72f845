package etl

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beyzasenay/mini-crm/internal/domain"
	"github.com/beyzasenay/mini-crm/internal/repository"
	"github.com/beyzasenay/mini-crm/internal/service"
)

func newTestImporter(t *testing.T) (*Importer, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	customerRepo := repository.NewCustomerRepository(db)
	matcher := service.NewDuplicateMatcher(customerRepo)
	customers := service.NewCustomerService(customerRepo, matcher, zap.NewNop())
	return NewImporter(customers, zap.NewNop()), db
}

func TestImportInsertsCleanedRows(t *testing.T) {
	imp, db := newTestImporter(t)

	csv := strings.Join([]string{
		"Ad,Soyad,Telefon,Email,Adres",
		"Ahmet,Yilmaz,+90 532 111 2233,Ahmet@Example.com,Istanbul",
		"Ayse,Demir,0555 222 33 44,ayse@example.com,Ankara",
	}, "\n")

	report, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Errors)

	var ahmet domain.Customer
	require.NoError(t, db.First(&ahmet, "first_name = ?", "Ahmet").Error)
	assert.Equal(t, "Yilmaz", ahmet.LastName)
	assert.Equal(t, "5321112233", ahmet.Phone, "phone must be cleaned before insert")
	assert.Equal(t, "ahmet@example.com", ahmet.Email)
	assert.Equal(t, "Istanbul", ahmet.Address)
}

func TestImportSkipsAndMergesDuplicates(t *testing.T) {
	imp, db := newTestImporter(t)
	ctx := context.Background()

	first := strings.Join([]string{
		"name,phone",
		"Ahmet Yilmaz,0532 111 22 33",
	}, "\n")
	_, err := imp.Import(ctx, strings.NewReader(first))
	require.NoError(t, err)

	// Same phone in another format: skipped, but the fields the stored
	// record is missing get merged onto it.
	second := strings.Join([]string{
		"name,phone,email,address",
		"Ahmet Yilmaz,+90 532 111 2233,ahmet@example.com,Istanbul",
	}, "\n")
	report, err := imp.Import(ctx, strings.NewReader(second))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 1, report.Skipped)

	var count int64
	require.NoError(t, db.Model(&domain.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored domain.Customer
	require.NoError(t, db.First(&stored, "first_name = ?", "Ahmet").Error)
	assert.Equal(t, "ahmet@example.com", stored.Email, "missing email must be merged")
	assert.Equal(t, "Istanbul", stored.Address, "missing address must be merged")
	assert.Equal(t, "5321112233", stored.Phone, "existing phone must be kept")
}

func TestImportSkipsRowsWithoutFirstName(t *testing.T) {
	imp, _ := newTestImporter(t)

	csv := strings.Join([]string{
		"name,phone",
		",5321112233",
		"Ahmet,5559998877",
	}, "\n")

	report, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "missing_first_name", report.Errors[0].Reason)
	assert.Equal(t, 2, report.Errors[0].Line)
}

func TestImportMapsHeaderVariants(t *testing.T) {
	imp, db := newTestImporter(t)

	csv := strings.Join([]string{
		"full_name,TelefonNo,e-posta",
		"Mehmet Can Demir,(0555) 111-22-33,mehmet@example.com",
	}, "\n")

	report, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)

	var stored domain.Customer
	require.NoError(t, db.First(&stored, "first_name = ?", "Mehmet").Error)
	assert.Equal(t, "Can Demir", stored.LastName)
	assert.Equal(t, "5551112233", stored.Phone)
	assert.Equal(t, "mehmet@example.com", stored.Email)
}

func TestImportRejectsInvalidEmailSilently(t *testing.T) {
	imp, db := newTestImporter(t)

	csv := strings.Join([]string{
		"name,email",
		"Ahmet,not-an-email",
	}, "\n")

	report, err := imp.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted, "row inserts with the invalid email dropped")

	var stored domain.Customer
	require.NoError(t, db.First(&stored, "first_name = ?", "Ahmet").Error)
	assert.Empty(t, stored.Email)
}
