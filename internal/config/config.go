// Package config binds launch-time configuration (ports, LED count,
// client limits, song directory, logging, playlist dwell) through viper, with cobra flags as the
// override surface, the same pairing the retrieval pack's bird-audio
// ingest daemon and Hue MCP server use for their own daemon configs.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully-resolved set of knobs the session server,
// dispatcher, and audio pipeline are constructed from.
type Config struct {
	ControlPort  int    `mapstructure:"control_port"`
	AudioPort    int    `mapstructure:"audio_port"`
	LEDCount     int    `mapstructure:"led_count"`
	MaxClients   int    `mapstructure:"max_clients"`
	SongsDir     string `mapstructure:"songs_dir"`
	LogLevel     string `mapstructure:"log_level"`
	LogJSON      bool   `mapstructure:"log_json"`
	PlaylistDwellSeconds int `mapstructure:"playlist_dwell_seconds"`
}

// Defaults mirrors the original protocol's constants (server.py's
// PORT=65432/MAX_CLIENTS=100, tcp_audio_sync.py's PI_PORT=5005) plus
// this system's own additions.
var Defaults = Config{
	ControlPort:          65432,
	AudioPort:            5005,
	LEDCount:             150,
	MaxClients:           100,
	SongsDir:             "./songs",
	LogLevel:             "info",
	LogJSON:              false,
	PlaylistDwellSeconds: 30,
}

// BindFlags registers the configuration surface on flags (a cobra
// command's Flags()) and binds each to v, so the final Config reflects
// flag > environment > default precedence via viper.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	flags.Int("control-port", Defaults.ControlPort, "TCP port for the control/command socket")
	flags.Int("audio-port", Defaults.AudioPort, "PCM audio ingress port recorded in the config; the audio pipeline always listens on audio.IngressPort (5005)")
	flags.Int("led-count", Defaults.LEDCount, "number of addressable LEDs on the strip")
	flags.Int("max-clients", Defaults.MaxClients, "maximum concurrent control connections")
	flags.String("songs-dir", Defaults.SongsDir, "directory of .wav files for the song catalog")
	flags.String("log-level", Defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.Bool("log-json", Defaults.LogJSON, "emit structured JSON logs")
	flags.Int("playlist-dwell-seconds", Defaults.PlaylistDwellSeconds, "seconds to dwell on each playlist step")

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("config: bind flags: %w", err)
	}

	v.SetEnvPrefix("TREELIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return nil
}

// Load resolves the bound viper values into a Config.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		ControlPort:          v.GetInt("control-port"),
		AudioPort:            v.GetInt("audio-port"),
		LEDCount:             v.GetInt("led-count"),
		MaxClients:           v.GetInt("max-clients"),
		SongsDir:             v.GetString("songs-dir"),
		LogLevel:             v.GetString("log-level"),
		LogJSON:              v.GetBool("log-json"),
		PlaylistDwellSeconds: v.GetInt("playlist-dwell-seconds"),
	}
	if cfg.LEDCount <= 0 {
		return Config{}, fmt.Errorf("config: led-count must be > 0")
	}
	if cfg.MaxClients <= 0 {
		return Config{}, fmt.Errorf("config: max-clients must be > 0")
	}
	return cfg, nil
}
