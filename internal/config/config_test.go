package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
server:
  port: 5000
  env: development
database:
  driver: memory
jwt:
  secret: from-yaml
order:
  tax_rate: "0.10"
  free_shipping_threshold: "100"
  shipping_fee: "5"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("FRONTEND_URL", "https://shop.example.com")

	// --- Act ---
	cfg, err := LoadConfig()

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "https://shop.example.com", cfg.FrontendURL)
	assert.Equal(t, 90, cfg.Cookie.ExpireDays, "defaults survive partial YAML")

	pricing, err := cfg.OrderPricing()
	require.NoError(t, err)
	assert.Equal(t, "0.1", pricing.TaxRate.String())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "sandbox", cfg.Payment.Provider)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxSize)
}

func TestValidate(t *testing.T) {
	t.Run("production requires a jwt secret", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Env = "production"
		cfg.Payment.Provider = "stripe"

		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects bad plan price", func(t *testing.T) {
		cfg := Default()
		cfg.JWT.Secret = "s"
		cfg.Subscription.Plans[0].Price = "free"

		assert.Error(t, cfg.Validate())
	})

	t.Run("development gets a fallback secret", func(t *testing.T) {
		cfg := Default()

		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.JWT.Secret)
	})
}

func TestPlans(t *testing.T) {
	plans, err := Default().Plans()

	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "plus_monthly", plans[0].ID)
	assert.Equal(t, "9.99", plans[0].Price.String())
}
