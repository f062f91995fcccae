// Package config registers the adcue settings with viper.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps a key to its environment variable suffix.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// ErrUnknownKey is returned for keys absent from Default.
var ErrUnknownKey = errors.New("unknown key")

// Setup binds defaults and environment variables, then reads the config file if there is one.
func Setup() error {
	viper.SetConfigName(constant.Adcue)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Adcue)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// File is the path of the config file, whether it exists or not.
func File() string {
	return filepath.Join(where.Config(), constant.Adcue+".toml")
}

// Save persists the current settings, creating the config file when missing.
func Save() error {
	exists, err := filesystem.API().Exists(File())
	if err != nil {
		return err
	}

	if exists {
		return viper.WriteConfigAs(File())
	}
	return viper.SafeWriteConfigAs(File())
}

// Reset restores keys to their defaults, every key when none is given.
func Reset(keys ...string) error {
	if len(keys) == 0 {
		for name, field := range Default {
			viper.Set(name, field.Value)
		}
		return nil
	}

	for _, name := range keys {
		if _, ok := Default[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKey, name)
		}
	}

	for _, name := range keys {
		viper.Set(name, Default[name].Value)
	}
	return nil
}
