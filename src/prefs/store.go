package prefs

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"papertrader/src/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var reHexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultSettings are used until the user saves anything.
func DefaultSettings() model.Settings {
	return model.Settings{
		Theme:           "system",
		AccentColor:     "#007AFF",
		DefaultLeverage: 1,
		MaxLeverage:     10,
		PriceAlerts:     false,
	}
}

// Store persists the single-row user settings in sqlite.
type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}
	if err := db.AutoMigrate(&model.Settings{}); err != nil {
		return nil, fmt.Errorf("migrate prefs db: %w", err)
	}
	return &Store{db: db}, nil
}

// WithDB injects a database handle, used by tests.
func (s *Store) WithDB(db *gorm.DB) *Store {
	s.db = db
	return s
}

// Load returns the stored settings, or the defaults when nothing was saved
// yet.
func (s *Store) Load(ctx context.Context) (model.Settings, error) {
	var out model.Settings
	err := s.db.WithContext(ctx).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return out, nil
}

// Save validates and upserts the settings row.
func (s *Store) Save(ctx context.Context, in model.Settings) error {
	if err := Validate(in); err != nil {
		return err
	}

	var existing model.Settings
	err := s.db.WithContext(ctx).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(&in).Error
	}
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	in.ID = existing.ID
	return s.db.WithContext(ctx).Save(&in).Error
}

// Validate checks the accent color format and the leverage bounds.
func Validate(in model.Settings) error {
	if !reHexColor.MatchString(in.AccentColor) {
		return fmt.Errorf("invalid accent color %q", in.AccentColor)
	}
	if in.DefaultLeverage < 1 {
		return errors.New("default leverage must be at least 1")
	}
	if in.MaxLeverage < in.DefaultLeverage {
		return errors.New("max leverage must not be below default leverage")
	}
	return nil
}
