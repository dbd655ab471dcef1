// Package config reads vg's settings from the reserved VG_* environment variables.
package config

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"go.trai.ch/vantage/internal/core/domain"
	"go.trai.ch/zerr"
)

const reservedPrefix = "VG_"

// Reader implements ports.SettingsReader.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read decodes the VG_* variables of env. Empty values count as unset.
// Boolean variables are bool-like: see looseBool.
func (r *Reader) Read(env *domain.Environment) (*domain.Settings, error) {
	input := make(map[string]any)
	for _, key := range env.Keys() {
		if !strings.HasPrefix(key, reservedPrefix) {
			continue
		}
		if value := env.Value(key); value != "" {
			input[key] = value
		}
	}

	var settings domain.Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           &settings,
		WeaklyTypedInput: true,
		DecodeHook:       looseBoolHook(),
	})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidSetting.Error())
	}
	if err := decoder.Decode(input); err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidSetting.Error())
	}

	return &settings, nil
}

// falseWords are the spellings of false beyond those of strconv.ParseBool.
var falseWords = map[string]bool{"no": true, "n": true, "off": true}

// looseBool reads a bool-like value. Spellings of strconv.ParseBool keep their meaning,
// "no", "n" and "off" are false, and any other non-empty value is true.
func looseBool(value string) bool {
	value = strings.TrimSpace(value)
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value != "" && !falseWords[strings.ToLower(value)]
}

func looseBoolHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}
		return looseBool(data.(string)), nil
	}
}

// Ambient builds the environment of the vg process from "KEY=VALUE" entries.
// VG_APP_DIR defaults to the working directory and is written back so tasks see it.
func Ambient(environ []string, getwd func() (string, error)) (*domain.Environment, error) {
	env := domain.EnvironmentFromList(environ)
	if env.Value(domain.EnvAppDir) != "" {
		return env, nil
	}

	wd, err := getwd()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidSetting.Error()), "setting", domain.EnvAppDir)
	}
	env.Set(domain.EnvAppDir, wd)
	return env, nil
}
