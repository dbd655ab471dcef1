package ports

import "go.trai.ch/vantage/internal/core/domain"

// SettingsReader decodes the reserved VG_* variables of an environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=settings.go -destination=mocks/mock_settings.go -package=mocks
type SettingsReader interface {
	Read(env *domain.Environment) (*domain.Settings, error)
}
