package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BotToken != "123:abc" {
		t.Errorf("token = %q", cfg.BotToken)
	}
	if cfg.DBBackend != "file" || cfg.DBFile != "data/countdowns.json" {
		t.Errorf("storage defaults = %q %q", cfg.DBBackend, cfg.DBFile)
	}
	if cfg.Interval != 10*time.Second || cfg.InitialDelay != time.Second {
		t.Errorf("loop defaults = %v %v", cfg.Interval, cfg.InitialDelay)
	}
	if cfg.Calendar != "jalali" || cfg.Timezone != "Asia/Tehran" || cfg.Lang != "fa" {
		t.Errorf("presentation defaults = %q %q %q", cfg.Calendar, cfg.Timezone, cfg.Lang)
	}
	if cfg.Port != "8080" || cfg.LogLevel != "info" || cfg.LogPretty {
		t.Errorf("web/log defaults = %q %q %v", cfg.Port, cfg.LogLevel, cfg.LogPretty)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN", "123:abc")
	t.Setenv("DB_BACKEND", "Bolt")
	t.Setenv("BOLT_PATH", "/tmp/cd.db")
	t.Setenv("UPDATE_INTERVAL", "5s")
	t.Setenv("CALENDAR", "gregorian")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_PRETTY", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBBackend != "bolt" || cfg.BoltPath != "/tmp/cd.db" {
		t.Errorf("storage = %q %q", cfg.DBBackend, cfg.BoltPath)
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("interval = %v", cfg.Interval)
	}
	if cfg.Calendar != "gregorian" {
		t.Errorf("calendar = %q", cfg.Calendar)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty {
		t.Errorf("log = %q %v", cfg.LogLevel, cfg.LogPretty)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing token", map[string]string{}, "TOKEN"},
		{"bad backend", map[string]string{"TOKEN": "t", "DB_BACKEND": "redis"}, "DB_BACKEND"},
		{"postgres without url", map[string]string{"TOKEN": "t", "DB_BACKEND": "postgres"}, "DATABASE_URL"},
		{"bad calendar", map[string]string{"TOKEN": "t", "CALENDAR": "lunar"}, "CALENDAR"},
		{"bad interval", map[string]string{"TOKEN": "t", "UPDATE_INTERVAL": "-1s"}, "UPDATE_INTERVAL"},
		{"bad log level", map[string]string{"TOKEN": "t", "LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TOKEN", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want mention of %s", err, tc.want)
			}
		})
	}
}
