package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/seedline/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.RefreshIntervalSec, convey.ShouldEqual, 300)
				convey.So(cfg.HistoryWeeks, convey.ShouldEqual, 2)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SEEDLINE_ADDR", ":8080")
			_ = os.Setenv("SEEDLINE_REFRESH_INTERVAL_SEC", "60")
			_ = os.Setenv("SEEDLINE_FETCH_WORKERS", "8")
			_ = os.Setenv("SEEDLINE_DEFAULT_MODE", "direct")
			_ = os.Setenv("SEEDLINE_CORS_ORIGINS", "https://a.example, https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RefreshIntervalSec, convey.ShouldEqual, 60)
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 8)
				convey.So(cfg.DefaultMode, convey.ShouldEqual, "direct")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
history_weeks: 4
sor_driver: postgres
sor_dsn: "postgres://localhost/seedline?sslmode=disable"
redis_addr: "localhost:6379"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SEEDLINE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.HistoryWeeks, convey.ShouldEqual, 4)
				convey.So(cfg.SORDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "localhost:6379")
			})

			convey.Convey("Then fields missing from the file keep defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RefreshIntervalSec, convey.ShouldEqual, 300)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nfetch_workers: 2\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SEEDLINE_CONFIG", tmpFile)
			_ = os.Setenv("SEEDLINE_FETCH_WORKERS", "6")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When loading config with a YAML list", func() {
			tmpFile := createTempConfigFile("cors_origins:\n  - https://only.example\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SEEDLINE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the list replaces the default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://only.example"})
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile("addr: [unclosed\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SEEDLINE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SEEDLINE_CONFIG", "/nonexistent/seedline.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SEEDLINE_ADDR", "")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with an unknown mode", func() {
			_ = os.Setenv("SEEDLINE_DEFAULT_MODE", "coaches-poll")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SEEDLINE_FETCH_WORKERS", "many")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SEEDLINE_CONFIG",
		"SEEDLINE_ADDR",
		"SEEDLINE_REFRESH_INTERVAL_SEC",
		"SEEDLINE_FETCH_WORKERS",
		"SEEDLINE_DEFAULT_MODE",
		"SEEDLINE_CORS_ORIGINS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "seedline-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
