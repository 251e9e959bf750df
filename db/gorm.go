package db

import (
	"fmt"
	"time"

	"github.com/123ibadullah/MusicWebApplication/config"
	applog "github.com/123ibadullah/MusicWebApplication/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB is the shared GORM database handle.
var GormDB *gorm.DB

// ConnectGormDB establishes the GORM database connection and configures the
// connection pool.
func ConnectGormDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	sqlDB, err := GormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	applog.Info("connected to the database",
		applog.String("host", cfg.DBHost),
		applog.String("database", cfg.DBName))
	return nil
}

// CloseGormDB closes the database connection.
func CloseGormDB() error {
	if GormDB == nil {
		return nil
	}
	sqlDB, err := GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrateModels migrates the given model types.
func AutoMigrateModels(models ...interface{}) error {
	if GormDB == nil {
		return fmt.Errorf("GORM database not initialized")
	}
	if err := GormDB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	applog.Info("models migrated")
	return nil
}
