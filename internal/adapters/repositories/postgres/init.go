package postgres

import (
	"fmt"
	"time"

	"github.com/iwtcode/brotherAdapter/internal/adapters/repositories/memory"
	"github.com/iwtcode/brotherAdapter/internal/adapters/repositories/postgres/machine"
	"github.com/iwtcode/brotherAdapter/internal/config"
	"github.com/iwtcode/brotherAdapter/internal/domain/entities"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	interfaces.MachineRepository
}

// NewRepository возвращает репозиторий станков. Без DB_ENABLE состояние хранится в памяти.
func NewRepository(cfg *config.AppConfig, appLogger *logging.Logger) (interfaces.MachineRepository, error) {
	log := appLogger.WithPrefix("REPOSITORY")
	if !cfg.Database.Enable {
		log.Info("Database disabled, using in-memory machine registry")
		return memory.NewMachineRepository(), nil
	}

	if err := ensureDatabase(cfg.Database, log); err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		appLogger.Logrus(),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	appDb, err := gorm.Open(postgres.Open(dsn(cfg.Database, cfg.Database.DBName)), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных '%s': %w", cfg.Database.DBName, err)
	}

	if sqlDB, err := appDb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := autoMigrate(appDb); err != nil {
		return nil, fmt.Errorf("ошибка выполнения автомиграций: %w", err)
	}

	return &Repository{
		MachineRepository: machine.NewMachineRepository(appDb),
	}, nil
}

func dsn(cfg config.DatabaseConfig, dbName string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.Username, cfg.Password, dbName, cfg.Port)
}

// ensureDatabase создает целевую БД через служебную БД 'postgres', если ее еще нет.
func ensureDatabase(cfg config.DatabaseConfig, log *logging.Logger) error {
	db, err := gorm.Open(postgres.Open(dsn(cfg, "postgres")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("не удалось подключиться к служебной БД 'postgres': %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	var exists bool
	if err := db.Raw("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)", cfg.DBName).Scan(&exists).Error; err != nil {
		return fmt.Errorf("не удалось проверить существование БД '%s': %w", cfg.DBName, err)
	}
	if exists {
		log.Debug("Database already exists", "db_name", cfg.DBName)
		return nil
	}

	log.Info("Database not found. Creating...", "db_name", cfg.DBName)
	if err := db.Exec(fmt.Sprintf("CREATE DATABASE %q", cfg.DBName)).Error; err != nil {
		return fmt.Errorf("не удалось создать БД '%s': %w", cfg.DBName, err)
	}
	log.Info("Database created successfully", "db_name", cfg.DBName)
	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&entities.Machine{})
}
