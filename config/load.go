package config

import (
	"lendpool/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
	"github.com/pkg/errors"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDPOOL")
	if configFile != "" {
		if err := configUtil.LoadYaml(configFile, config); err != nil {
			return errors.Wrapf(err, "load config %s", configFile)
		}
	}

	withDefaults(config)

	if _, err := govalidator.ValidateStruct(config); err != nil {
		return errors.Wrap(err, "validate config")
	}

	return nil
}
