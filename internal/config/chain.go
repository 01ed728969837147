package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ChainConfig struct {
	Difficulty    int
	Workers       int
	MaxIterations uint64
}

func (c ChainConfig) Validate() error {
	if c.Difficulty < 1 || c.Difficulty > 64 {
		return fmt.Errorf("difficulty must be between 1 and 64, got %d", c.Difficulty)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

func LoadChainConfigFromCLI() ChainConfig {
	return ChainConfig{
		Difficulty:    viper.GetInt("difficulty"),
		Workers:       viper.GetInt("workers"),
		MaxIterations: viper.GetUint64("max-iterations"),
	}
}
