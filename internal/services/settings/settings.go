package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

const (
	keyLogo       = "logo"
	keyHotelName  = "hotel_name"
	keyThemeColor = "theme_color"
)

// Service is the typed accessor over the key/value settings table. The last
// loaded or saved value is cached for readers.
type Service struct {
	log  *slog.Logger
	repo repository.SettingsRepoIface

	mu      sync.RWMutex
	current models.Settings
}

func NewService(log *slog.Logger, repo repository.SettingsRepoIface) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "settings"),
	)
}

// Load reads the stored settings and refreshes the cache. Unknown keys are ignored.
func (s *Service) Load(ctx context.Context) (models.Settings, error) {
	values, err := s.repo.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := models.Settings{
		Logo:       values[keyLogo],
		HotelName:  values[keyHotelName],
		ThemeColor: values[keyThemeColor],
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	return loaded, nil
}

// Update merges the non-empty fields of patch over the current settings and stores the result.
func (s *Service) Update(ctx context.Context, patch models.Settings) (models.Settings, error) {
	const opn = "Settings.Update"
	log := s.initLogger(opn)

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.current
	changed := make(map[string]string, 3)

	if patch.Logo != "" {
		merged.Logo = patch.Logo
		changed[keyLogo] = patch.Logo
	}
	if patch.HotelName != "" {
		merged.HotelName = patch.HotelName
		changed[keyHotelName] = patch.HotelName
	}
	if patch.ThemeColor != "" {
		merged.ThemeColor = patch.ThemeColor
		changed[keyThemeColor] = patch.ThemeColor
	}

	if len(changed) == 0 {
		return merged, nil
	}

	if err := s.repo.SaveSettings(ctx, changed); err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.current = merged
	log.InfoContext(ctx, "settings updated", "keys", len(changed))

	return merged, nil
}

// Current returns the cached settings without touching the store.
func (s *Service) Current() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}
