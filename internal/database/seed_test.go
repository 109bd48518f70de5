package database

import (
	"testing"

	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSeededDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, Seed(db))
	return db
}

func TestSeedReferenceData(t *testing.T) {
	db := openSeededDB(t)

	var roles, docTypes, statuses int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roles).Error)
	require.NoError(t, db.Model(&models.DocumentType{}).Count(&docTypes).Error)
	require.NoError(t, db.Model(&models.ProjectStatus{}).Count(&statuses).Error)
	assert.Equal(t, int64(2), roles)
	assert.Equal(t, int64(6), docTypes)
	assert.Equal(t, int64(5), statuses)

	var defaultStatus models.ProjectStatus
	require.NoError(t, db.Where("name = ?", DefaultStatusName).First(&defaultStatus).Error)
	assert.False(t, defaultStatus.GeneraBitacora)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openSeededDB(t)
	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var statuses int64
	require.NoError(t, db.Model(&models.ProjectStatus{}).Count(&statuses).Error)
	assert.Equal(t, int64(5), statuses)
}

func TestSeedBitacoraStatus(t *testing.T) {
	db := openSeededDB(t)

	var withBitacora []models.ProjectStatus
	require.NoError(t, db.Where("genera_bitacora = ?", true).Find(&withBitacora).Error)
	require.Len(t, withBitacora, 1)
	assert.Equal(t, "En negociación", withBitacora[0].Name)
}
