package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("JSON with defaults", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.json", `{
			"monitoring": {
				"check_interval_minutes": 15,
				"routes": [{
					"name": "NYC-BOS",
					"origin": "New York, NY",
					"destination": "Boston, MA",
					"date": "2026-12-20",
					"alert_on_availability": true,
					"alert_on_price_drop": true,
					"max_price": 50
				}],
				"notifications": {
					"webhook": {"enabled": true, "url": "http://localhost/hook"}
				}
			}
		}`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		require.Len(t, cfg.Monitoring.Routes, 1)
		route := cfg.Monitoring.Routes[0]
		assert.Equal(t, "NYC-BOS", route.Name)
		assert.True(t, route.AlertOnAvailability)
		require.NotNil(t, route.MaxPrice)
		assert.Equal(t, 50.0, *route.MaxPrice)

		assert.Equal(t, 15*time.Minute, cfg.CheckInterval())
		assert.Equal(t, 5*time.Second, cfg.RoutePause())
		assert.True(t, cfg.ShouldRepeatAlerts())
		assert.Equal(t, "farewatch.db", cfg.Database.Path)
		assert.Equal(t, 5, cfg.Scraper.MaxResults)
		assert.Equal(t, 587, cfg.Monitoring.Notifications.Email.SMTPPort)
		assert.True(t, cfg.Monitoring.Notifications.Webhook.Enabled)
		assert.Equal(t, "http://localhost/hook", cfg.Monitoring.Notifications.Webhook.URL)
	})

	t.Run("JSON5 comments and trailing commas", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.json", `{
			// watched routes
			"monitoring": {
				"repeat_alerts": false,
				"routes": [{"name": "A", "origin": "X", "destination": "Y", "date": "2026-01-01",},],
			},
		}`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Len(t, cfg.Monitoring.Routes, 1)
		assert.Nil(t, cfg.Monitoring.Routes[0].MaxPrice)
		assert.False(t, cfg.ShouldRepeatAlerts())
		assert.Equal(t, 30*time.Minute, cfg.CheckInterval())
	})

	t.Run("YAML", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", `
monitoring:
  check_interval_minutes: 10
  routes:
    - name: PHL-WAS
      origin: Philadelphia, PA
      destination: Washington, DC
      date: "2026-11-02"
      alert_on_price_drop: true
      max_price: 39.5
database:
  path: /tmp/history.db
`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Monitoring.Routes, 1)
		assert.Equal(t, "PHL-WAS", cfg.Monitoring.Routes[0].Name)
		assert.Equal(t, 39.5, *cfg.Monitoring.Routes[0].MaxPrice)
		assert.Equal(t, "/tmp/history.db", cfg.Database.Path)
		assert.Equal(t, 10*time.Minute, cfg.CheckInterval())
	})

	t.Run("Missing file names the template", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")

		cfg, err := LoadConfig(path)
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfigNotFound))

		var notFound *NotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, filepath.Join(dir, "config.example.json"), notFound.TemplatePath)
		assert.Contains(t, err.Error(), "config.example.json")
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.json", `{"monitoring": [`)

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrConfigNotFound))
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{
		"monitoring": {"notifications": {"telegram": {"enabled": true, "bot_token": "from-file", "chat_id": "1"}}}
	}`)
	writeFile(t, dir, ".env", "FAREWATCH_SMTP_PASSWORD=from-dotenv\n")
	t.Setenv("FAREWATCH_TELEGRAM_BOT_TOKEN", "from-env")
	t.Cleanup(func() { os.Unsetenv("FAREWATCH_SMTP_PASSWORD") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Monitoring.Notifications.Telegram.BotToken)
	assert.Equal(t, "from-dotenv", cfg.Monitoring.Notifications.Email.SenderPassword)
}

func TestExplicitZeroKept(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{
		"monitoring": {
			"check_interval_minutes": 0,
			"route_pause_seconds": 0,
			"repeat_alerts": false,
			"routes": [{"name": "A", "max_price": 50}]
		}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.RoutePause())
	assert.Equal(t, time.Duration(0), cfg.CheckInterval())
	assert.False(t, cfg.ShouldRepeatAlerts())
	assert.Equal(t, 50.0, *cfg.Monitoring.Routes[0].MaxPrice)
}

func TestSaveConfig(t *testing.T) {
	maxPrice := 42.0
	cfg := Defaults()
	cfg.Monitoring.Routes = []Route{{
		Name:             "CHI-MKE",
		Origin:           "Chicago, IL",
		Destination:      "Milwaukee, WI",
		Date:             "2026-10-30",
		AlertOnPriceDrop: true,
		MaxPrice:         &maxPrice,
	}}

	for _, name := range []string{"saved.yaml", "saved.json", filepath.Join("nested", "config.json")} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveConfig(&cfg, path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg.Monitoring.Routes, loaded.Monitoring.Routes)
			assert.Equal(t, cfg.Scraper.Selectors, loaded.Scraper.Selectors)
			assert.Equal(t, cfg.CheckInterval(), loaded.CheckInterval())
			assert.Equal(t, cfg.RoutePause(), loaded.RoutePause())
		})
	}

	t.Run("JSON output is plain JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, SaveConfig(&cfg, path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"check_interval_minutes": 30`)
	})
}

func TestExampleConfigParses(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config", "config.example.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Monitoring.Routes)
	assert.True(t, cfg.Monitoring.Notifications.Desktop.Enabled)
}
