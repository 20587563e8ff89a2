package repository

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/game-catalog/internal/models"
)

// SetupTestDB 为测试套件设置测试数据库
// 使用内存数据库，更快且不依赖文件系统
func SetupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(&models.FavoriteGame{}); err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	if db == nil {
		return
	}

	// 清理表数据，保留表结构
	db.Unscoped().Where("1 = 1").Delete(&models.FavoriteGame{})

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
