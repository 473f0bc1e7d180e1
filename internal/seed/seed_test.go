package seed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"studio-service/internal/model"
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

func TestSeedWritesRootAndDefaults(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db, zap.NewNop())

	studio := model.Studio{ID: "studio-1", Name: "North Studio", AdminEmail: "a@b.c"}
	require.NoError(t, s.Seed(&studio))

	var stored model.Studio
	require.NoError(t, db.First(&stored, "id = ?", "studio-1").Error)
	require.False(t, stored.IsArchived)

	var classTypes []model.ClassType
	require.NoError(t, db.Where("studio_id = ?", "studio-1").Order("id").Find(&classTypes).Error)
	require.Len(t, classTypes, len(Defaults()))
	require.Equal(t, "duet", classTypes[0].ID)
	require.Equal(t, "group", classTypes[1].ID)
	require.Equal(t, "private", classTypes[2].ID)

	// Every seeded pricing table covers both trainer levels.
	for _, ct := range classTypes {
		var pricing Pricing
		require.NoError(t, json.Unmarshal([]byte(ct.Pricing), &pricing))
		require.Contains(t, pricing, "senior")
		require.Contains(t, pricing, "master")
	}
}

func TestSeedIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db, zap.NewNop())

	studio := model.Studio{ID: "studio-1", Name: "North Studio", AdminEmail: "a@b.c"}
	require.NoError(t, s.Seed(&studio))

	// Re-seeding the same partition conflicts on the root row; nothing of
	// the second attempt may land.
	again := model.Studio{ID: "studio-1", Name: "Duplicate", AdminEmail: "a@b.c"}
	require.Error(t, s.Seed(&again))

	var stored model.Studio
	require.NoError(t, db.First(&stored, "id = ?", "studio-1").Error)
	require.Equal(t, "North Studio", stored.Name)

	var count int64
	require.NoError(t, db.Model(&model.ClassType{}).Where("studio_id = ?", "studio-1").Count(&count).Error)
	require.EqualValues(t, len(Defaults()), count)
}
