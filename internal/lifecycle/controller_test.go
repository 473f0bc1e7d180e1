package lifecycle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studio-service/internal/apperr"
	"studio-service/internal/identity"
	"studio-service/internal/model"
	"studio-service/internal/purge"
	"studio-service/pkg/jwtutil"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func newController(db *gorm.DB) *Controller {
	log := zap.NewNop()
	return NewController(db, identity.NewProvider(db, log), purge.NewEngine(db, 100, log), log)
}

func superAdmin() *jwtutil.Claims {
	return &jwtutil.Claims{UID: "root", Email: "root@example.com", Role: model.RoleSuperAdmin}
}

// populateStudio writes a root row, a bound admin identity and a handful of
// records in every subcollection.
func populateStudio(t *testing.T, db *gorm.DB, id string) {
	t.Helper()

	studioID := id
	require.NoError(t, db.Create(&model.Studio{
		ID:         id,
		Name:       "Studio " + id,
		AdminEmail: id + "@example.com",
	}).Error)
	require.NoError(t, db.Create(&model.IdentityAccount{
		UID:      "uid-" + id,
		Email:    id + "@example.com",
		StudioID: &studioID,
		Role:     model.RoleAdmin,
	}).Error)

	for i := 0; i < 3; i++ {
		suffix := fmt.Sprintf("%s-%d", id, i)
		require.NoError(t, db.Create(&model.ClassType{StudioID: id, ID: "ct-" + suffix, Name: "Class"}).Error)
		require.NoError(t, db.Create(&model.Trainer{StudioID: id, ID: "tr-" + suffix, Name: "Trainer"}).Error)
		require.NoError(t, db.Create(&model.Customer{StudioID: id, ID: "cu-" + suffix, Name: "Customer"}).Error)
		require.NoError(t, db.Create(&model.Booking{StudioID: id, ID: "bk-" + suffix, CustomerID: "cu-" + suffix}).Error)
		require.NoError(t, db.Create(&model.Payment{StudioID: id, ID: "pm-" + suffix, Amount: 100}).Error)
		require.NoError(t, db.Create(&model.CustomerPayment{StudioID: id, ID: "cp-" + suffix, Amount: 100}).Error)
		require.NoError(t, db.Create(&model.AdvancePayment{StudioID: id, ID: "ap-" + suffix, Amount: 100}).Error)
		require.NoError(t, db.Create(&model.SessionDebt{StudioID: id, ID: "sd-" + suffix, Sessions: 1}).Error)
	}
}

func subcollectionCounts(t *testing.T, db *gorm.DB, id string) map[string]int64 {
	t.Helper()
	counts := make(map[string]int64)
	for _, sub := range model.Subcollections() {
		var count int64
		require.NoError(t, db.Model(sub.Model).Where("studio_id = ?", id).Count(&count).Error)
		counts[sub.Name] = count
	}
	return counts
}

func TestSetArchivedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	c := newController(db)
	populateStudio(t, db, "s1")

	require.NoError(t, c.SetArchived("s1", true, superAdmin()))
	require.NoError(t, c.SetArchived("s1", true, superAdmin()))

	var studio model.Studio
	require.NoError(t, db.First(&studio, "id = ?", "s1").Error)
	require.True(t, studio.IsArchived)

	require.NoError(t, c.SetArchived("s1", false, superAdmin()))
	require.NoError(t, db.First(&studio, "id = ?", "s1").Error)
	require.False(t, studio.IsArchived)
}

func TestSetArchivedMissingStudio(t *testing.T) {
	db := newTestDB(t)
	c := newController(db)

	err := c.SetArchived("nope", true, superAdmin())
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeleteStudio(t *testing.T) {
	db := newTestDB(t)
	c := newController(db)
	populateStudio(t, db, "s1")
	populateStudio(t, db, "s2")

	require.NoError(t, c.DeleteStudio("s1", superAdmin()))

	// Every subcollection is empty and the root row is gone.
	for name, count := range subcollectionCounts(t, db, "s1") {
		require.EqualValues(t, 0, count, "subcollection %s not empty", name)
	}
	var rootCount int64
	require.NoError(t, db.Model(&model.Studio{}).Where("id = ?", "s1").Count(&rootCount).Error)
	require.EqualValues(t, 0, rootCount)

	// The admin login is disabled.
	var account model.IdentityAccount
	require.NoError(t, db.First(&account, "email = ?", "s1@example.com").Error)
	require.True(t, account.Disabled)

	// The other studio's partition is untouched.
	for name, count := range subcollectionCounts(t, db, "s2") {
		require.EqualValues(t, 3, count, "subcollection %s of other studio touched", name)
	}

	// A second delete reports not-found: the studio is already gone.
	err := c.DeleteStudio("s1", superAdmin())
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeleteStudioResumesAfterPartialDeletion(t *testing.T) {
	db := newTestDB(t)
	c := newController(db)
	populateStudio(t, db, "s1")

	// Simulate a crash after the first two subcollections were emptied.
	require.NoError(t, db.Where("studio_id = ?", "s1").Delete(&model.ClassType{}).Error)
	require.NoError(t, db.Where("studio_id = ?", "s1").Delete(&model.Trainer{}).Error)

	require.NoError(t, c.DeleteStudio("s1", superAdmin()))

	for name, count := range subcollectionCounts(t, db, "s1") {
		require.EqualValues(t, 0, count, "subcollection %s not empty", name)
	}
	var rootCount int64
	require.NoError(t, db.Model(&model.Studio{}).Where("id = ?", "s1").Count(&rootCount).Error)
	require.EqualValues(t, 0, rootCount)
}

func TestDeleteStudioMissingAdminIdentityIsNotFatal(t *testing.T) {
	db := newTestDB(t)
	c := newController(db)
	populateStudio(t, db, "s1")

	// Losing the identity account must not block deletion.
	require.NoError(t, db.Where("email = ?", "s1@example.com").Delete(&model.IdentityAccount{}).Error)

	require.NoError(t, c.DeleteStudio("s1", superAdmin()))

	var rootCount int64
	require.NoError(t, db.Model(&model.Studio{}).Where("id = ?", "s1").Count(&rootCount).Error)
	require.EqualValues(t, 0, rootCount)
}

func TestLifecycleRequiresSuperAdmin(t *testing.T) {
	db := newTestDB(t)
	c := newController(db)
	populateStudio(t, db, "s1")

	tenantAdmin := &jwtutil.Claims{UID: "u1", Role: model.RoleAdmin}

	err := c.SetArchived("s1", true, tenantAdmin)
	require.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))

	err = c.DeleteStudio("s1", tenantAdmin)
	require.Equal(t, apperr.CodePermissionDenied, apperr.CodeOf(err))

	// Nothing was archived or deleted.
	var studio model.Studio
	require.NoError(t, db.First(&studio, "id = ?", "s1").Error)
	require.False(t, studio.IsArchived)
	for name, count := range subcollectionCounts(t, db, "s1") {
		require.EqualValues(t, 3, count, "subcollection %s mutated", name)
	}
}

func TestListStudios(t *testing.T) {
	db := newTestDB(t)
	c := newController(db)
	populateStudio(t, db, "s1")
	populateStudio(t, db, "s2")
	require.NoError(t, c.SetArchived("s2", true, superAdmin()))

	active, err := c.List(false, superAdmin())
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "s1", active[0].ID)

	all, err := c.List(true, superAdmin())
	require.NoError(t, err)
	require.Len(t, all, 2)
}
