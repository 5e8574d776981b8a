package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/example/tenant-console/internal/config"
	"github.com/example/tenant-console/internal/models"
)

// Open abre o banco de estado conforme cfg.Storage ("sqlite" ou "postgres").
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Storage {
	case "postgres":
		return OpenPostgres(cfg)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath()), 0o700); err != nil {
			return nil, err
		}
		return OpenSQLite(cfg.SQLitePath())
	}
	return nil, fmt.Errorf("storage sem banco: %q", cfg.Storage)
}

// OpenPostgres inicializa a conexão com PostgreSQL.
func OpenPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// OpenSQLite abre um banco SQLite local.
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// AutoMigrate executa as migrações automáticas dos modelos de estado.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.StateEntry{})
}

// Close fecha a conexão com o banco.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

// KVStorage persiste o estado da sessão em uma tabela chave/valor.
type KVStorage struct {
	db *gorm.DB
}

func NewKVStorage(db *gorm.DB) *KVStorage {
	return &KVStorage{db: db}
}

// Load retorna apenas as chaves encontradas.
func (s *KVStorage) Load(keys ...string) (map[string]string, error) {
	var entries []models.StateEntry
	if err := s.db.Where("state_key IN ?", keys).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("erro ao ler estado: %w", err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// Save grava todas as chaves em uma única transação.
func (s *KVStorage) Save(values map[string]string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			entry := models.StateEntry{Key: k, Value: v}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "state_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&entry).Error
			if err != nil {
				return fmt.Errorf("erro ao gravar %s: %w", k, err)
			}
		}
		return nil
	})
}

// Delete remove as chaves em uma única transação.
func (s *KVStorage) Delete(keys ...string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("state_key IN ?", keys).Delete(&models.StateEntry{}).Error
	})
}
