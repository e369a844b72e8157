package main

import (
	"errors"
	"strings"
	"time"

	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/service"
	"maintenance_dashboard/internal/visualizer"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	envPrefix = "DASHBOARD"

	// placeholderSigningKey is the value shipped in older config files.
	placeholderSigningKey = "change-me"
	minSigningKeyLen      = 16
)

var errSigningKey = errors.New("auth.signing_key must be set to a private value of at least 16 bytes (DASHBOARD_AUTH_SIGNING_KEY)")

var defaults = map[string]any{
	"port":                            "8080",
	"log.level":                       logger.InfoLevel,
	"db.path":                         "dashboard.db",
	"backend.base_url":                "http://localhost:8000",
	"backend.timeout":                 30 * time.Second,
	"auth.signing_key":                "",
	"auth.token_ttl":                  12 * time.Hour,
	"auth.allow_sign_up":              false,
	"views.default_tab":               string(models.TabDashboard),
	"visualizer.enabled":              true,
	"visualizer.points":               visualizer.DefaultPoints,
	"visualizer.width":                visualizer.DefaultWidth,
	"visualizer.height":               visualizer.DefaultHeight,
	"visualizer.frame_interval":       visualizer.DefaultFrameInterval,
	"visualizer.relocate_probability": visualizer.DefaultRelocateProbability,
	"visualizer.alert_duration":       visualizer.DefaultAlertDuration,
	"terminal.history":                500,
	"server.write_timeout":            60 * time.Second,
}

// loadConfig reads configs/config.yml on top of the defaults. A missing
// file is fine; every key can also come from DASHBOARD_* variables.
func loadConfig(v *viper.Viper, file string) error {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// watchLogLevel applies log.level changes of the config file at runtime.
func watchLogLevel(v *viper.Viper, log *logger.Logger) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		level := v.GetString("log.level")
		log.SetLevel(level)
		log.Infow("config_reloaded", "file", e.Name, "op", e.Op.String(), "log_level", level)
	})
	v.WatchConfig()
}

// validateSigningKey refuses keys anyone could guess, since every
// operator token is signed with it.
func validateSigningKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" || key == placeholderSigningKey || len(key) < minSigningKeyLen {
		return errSigningKey
	}
	return nil
}

func serviceConfig(v *viper.Viper) service.Config {
	tab, ok := models.ParseTab(v.GetString("views.default_tab"))
	if !ok {
		tab = models.TabDashboard
	}
	return service.Config{
		DefaultTab:    tab,
		SigningKey:    v.GetString("auth.signing_key"),
		TokenTTL:      v.GetDuration("auth.token_ttl"),
		AllowSignUp:   v.GetBool("auth.allow_sign_up"),
		ConsoleLimit:  v.GetInt("terminal.history"),
		AlertDuration: v.GetDuration("visualizer.alert_duration"),
	}
}

func visualizerConfig(v *viper.Viper) visualizer.Config {
	return visualizer.Config{
		Points:              v.GetInt("visualizer.points"),
		Width:               v.GetInt("visualizer.width"),
		Height:              v.GetInt("visualizer.height"),
		RelocateProbability: v.GetFloat64("visualizer.relocate_probability"),
		AlertDuration:       v.GetDuration("visualizer.alert_duration"),
	}
}
