package config

import (
	"fmt"
	"time"

	"github.com/tringuyenminh209/Kizamu/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the MySQL connection and migrates the schema.
func InitDB(config Config) error {
	dsn := config.GetDBConnString()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// Connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrateDB(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	return nil
}

func migrateDB() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.PersonalAccessToken{},
		&models.Project{},
		&models.LearningMilestone{},
		&models.Tag{},
		&models.Task{},
		&models.Subtask{},
		&models.FocusSession{},
	)
}
