package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, BindFlags(flags, v))

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, Defaults.ControlPort, cfg.ControlPort)
	require.Equal(t, Defaults.AudioPort, cfg.AudioPort)
	require.Equal(t, Defaults.LEDCount, cfg.LEDCount)
}

func TestLoadHonorsFlagOverride(t *testing.T) {
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, BindFlags(flags, v))
	require.NoError(t, flags.Set("led-count", "42"))

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 42, cfg.LEDCount)
}

func TestLoadRejectsZeroLEDCount(t *testing.T) {
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, BindFlags(flags, v))
	require.NoError(t, flags.Set("led-count", "0"))

	_, err := Load(v)
	require.Error(t, err)
}
