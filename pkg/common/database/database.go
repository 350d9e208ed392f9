package database

import (
	"fmt"

	"github.com/ucgmsim/nzgd-map/pkg/common/config"
	"github.com/ucgmsim/nzgd-map/pkg/common/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the NZGD store. The production deployment reads a SQLite
// snapshot produced by the extraction pipeline; Postgres is supported for
// deployments that load the same schema into a shared server.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DatabaseDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.PostgresHost,
			cfg.PostgresUser,
			cfg.PostgresPassword,
			cfg.PostgresDB,
			cfg.PostgresPort,
			cfg.PostgresSSLMode,
		)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite", "":
		// mode=ro: the pipeline only ever issues SELECTs.
		db, err = gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=ro", cfg.SQLitePath)), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		logger.Log.WithError(err).WithField("driver", cfg.DatabaseDriver).Error("Failed to connect to database")
		return nil, err
	}

	logger.Log.WithField("driver", cfg.DatabaseDriver).Info("Connected to NZGD database")
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
