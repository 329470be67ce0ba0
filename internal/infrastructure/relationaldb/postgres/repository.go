// Package postgres provides a PostgreSQL implementation of the RelationalDB
// interface built on gorm.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
	"github.com/ersonp/travel-tracker/internal/infrastructure/config"
)

// insertBatchSize bounds the rows sent per INSERT when seeding countries.
const insertBatchSize = 100

// countryRow maps the countries reference table.
type countryRow struct {
	ID   int    `gorm:"primaryKey;autoIncrement"`
	Code string `gorm:"column:country_code;type:varchar(2);not null;uniqueIndex"`
	Name string `gorm:"column:country_name;type:varchar(255);not null;uniqueIndex"`
}

func (countryRow) TableName() string { return "countries" }

// visitedRow maps visited_countries. The unique index on country_code is
// what makes InsertVisited atomic.
type visitedRow struct {
	ID      int         `gorm:"primaryKey;autoIncrement"`
	Code    string      `gorm:"column:country_code;type:varchar(2);not null;uniqueIndex"`
	Country *countryRow `gorm:"foreignKey:Code;references:Code;constraint:OnDelete:CASCADE"`
}

func (visitedRow) TableName() string { return "visited_countries" }

// Repository implements ports.RelationalDB using PostgreSQL.
type Repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// Option configures a Repository.
type Option func(*gorm.Config)

// WithQueryLogging logs every SQL statement gorm issues.
func WithQueryLogging() Option {
	return func(c *gorm.Config) {
		c.Logger = logger.Default.LogMode(logger.Info)
	}
}

// NewRepository opens a connection pool for cfg.
func NewRepository(cfg config.DatabaseConfig, opts ...Option) (*Repository, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres at %s: %w", cfg.Redacted(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database object: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Repository{db: db, sqlDB: sqlDB}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.sqlDB.Close()
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.sqlDB.PingContext(ctx)
}

// EnsureSchema creates the tables and indexes if they don't exist. An
// existing visited table is first reduced to one row per code, so the
// unique index can be built on tables created by a migrate script.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if db.Migrator().HasTable(&visitedRow{}) {
		err := db.Exec(`
			DELETE FROM visited_countries a
			USING visited_countries b
			WHERE a.country_code = b.country_code AND a.id > b.id
		`).Error
		if err != nil {
			return fmt.Errorf("removing duplicate visited countries: %w", err)
		}
	}

	if err := db.AutoMigrate(&countryRow{}, &visitedRow{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// FindCountryByName finds a country by case-insensitive name.
func (r *Repository) FindCountryByName(ctx context.Context, name string) (*entities.Country, error) {
	var row countryRow
	err := r.db.WithContext(ctx).
		Where("LOWER(TRIM(country_name)) = ?", entities.NormalizeName(name)).
		Order("id").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding country: %w", err)
	}
	return &entities.Country{Code: row.Code, Name: row.Name}, nil
}

// ListCountries lists all countries ordered by name.
func (r *Repository) ListCountries(ctx context.Context) ([]entities.Country, error) {
	var rows []countryRow
	if err := r.db.WithContext(ctx).Order("country_name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}

	result := make([]entities.Country, len(rows))
	for i, row := range rows {
		result[i] = entities.Country{Code: row.Code, Name: row.Name}
	}
	return result, nil
}

// CountCountries returns the number of reference countries.
func (r *Repository) CountCountries(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&countryRow{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting countries: %w", err)
	}
	return int(count), nil
}

// SaveCountries inserts countries, skipping rows whose code or name already
// exists.
func (r *Repository) SaveCountries(ctx context.Context, countries []entities.Country) (int, error) {
	if len(countries) == 0 {
		return 0, nil
	}

	rows := make([]countryRow, len(countries))
	for i, c := range countries {
		rows[i] = countryRow{Code: c.Code, Name: c.Name}
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, insertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("saving countries: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// ListVisitedCodes returns visited codes in insertion order.
func (r *Repository) ListVisitedCodes(ctx context.Context) ([]string, error) {
	codes := []string{}
	err := r.db.WithContext(ctx).
		Model(&visitedRow{}).
		Order("id").
		Pluck("country_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("listing visited countries: %w", err)
	}
	return codes, nil
}

// InsertVisited records code as visited in a single conflict-aware INSERT.
func (r *Repository) InsertVisited(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "country_code"}},
			DoNothing: true,
		}).
		Create(&visitedRow{Code: code})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return entities.ErrAlreadyVisited
	}
	if res.Error != nil {
		return fmt.Errorf("inserting visited country: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return entities.ErrAlreadyVisited
	}
	return nil
}

// DeleteVisited removes every row for code.
func (r *Repository) DeleteVisited(ctx context.Context, code string) (int64, error) {
	res := r.db.WithContext(ctx).Where("country_code = ?", code).Delete(&visitedRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting visited country: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ExecStatement runs a single raw SQL statement.
func (r *Repository) ExecStatement(ctx context.Context, statement string) error {
	if err := r.db.WithContext(ctx).Exec(statement).Error; err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}
