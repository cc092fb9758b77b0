// Package storage persists customer policy records in a local SQLite file.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/a3tai/policy-tracker/internal/logging"
	"github.com/a3tai/policy-tracker/internal/policy"
)

// ErrNotFound is returned when an id has no row.
var ErrNotFound = errors.New("customer not found")

// Store is the customers table.
type Store struct {
	db     *gorm.DB
	logger logging.Logger
}

// Open opens (creating if needed) the database at path and makes sure the
// customers table exists.
func Open(path string, logger logging.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Customer{}); err != nil {
		return nil, fmt.Errorf("failed to create customers table: %w", err)
	}

	logger = logger.Named("store")
	logger.Debug("database ready", logging.String("path", path))

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Insert stores r and returns its new id.
func (s *Store) Insert(ctx context.Context, r policy.Record) (uint, error) {
	row := fromRecord(r)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to insert customer: %w", err)
	}
	s.logger.Debug("inserted customer", logging.Uint("id", row.ID))
	return row.ID, nil
}

// Get returns one stored record.
func (s *Store) Get(ctx context.Context, id uint) (policy.Stored, error) {
	var row Customer
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return policy.Stored{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return policy.Stored{}, fmt.Errorf("failed to load customer %d: %w", id, err)
	}
	return row.toStored(), nil
}

// FetchAll returns stored records in insertion order. A non-empty filter
// keeps only records whose full name contains it, ignoring case the way
// Turkish text needs (I, İ, ı and i all match each other).
func (s *Store) FetchAll(ctx context.Context, filter string) ([]policy.Stored, error) {
	var rows []Customer
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	needle := FoldName(strings.TrimSpace(filter))
	out := make([]policy.Stored, 0, len(rows))
	for _, row := range rows {
		if needle != "" && !strings.Contains(FoldName(row.FullName), needle) {
			continue
		}
		out = append(out, row.toStored())
	}
	return out, nil
}

// Update replaces every field of the record with the given id.
func (s *Store) Update(ctx context.Context, id uint, r policy.Record) error {
	res := s.db.WithContext(ctx).
		Model(&Customer{}).
		Where("id = ?", id).
		Updates(fromRecord(r).columns())
	if res.Error != nil {
		return fmt.Errorf("failed to update customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	s.logger.Debug("updated customer", logging.Uint("id", id))
	return nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Customer{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	s.logger.Debug("deleted customer", logging.Uint("id", id))
	return nil
}

// FoldName lowercases s with Turkish rules and merges dotted and dotless i,
// so searches match regardless of how a name was typed.
func FoldName(s string) string {
	lower := cases.Lower(language.Turkish).String(s)
	return strings.ReplaceAll(lower, "ı", "i")
}
