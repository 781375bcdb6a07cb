package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"PGCheckout/internal/cashfree"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DB struct {
		// DSN is optional for the API server (it runs without an
		// audit trail) and required by the reconciler and migrator.
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	Cashfree struct {
		BaseURL    string `yaml:"base_url"`
		AppID      string `yaml:"app_id"`
		SecretKey  string `yaml:"secret_key"`
		APIVersion string `yaml:"api_version"`
	} `yaml:"cashfree"`
	Client struct {
		// URL is the browser origin hosting the payment pages; the
		// provider's return redirect lands on its /payment-status.
		URL string `yaml:"url"`
	} `yaml:"client"`
	Orders struct {
		TTLMinutes int    `yaml:"ttl_minutes"`
		Note       string `yaml:"note"`
	} `yaml:"orders"`
	Reconciler struct {
		IntervalSeconds int64 `yaml:"interval_seconds"`
		GraceMinutes    int   `yaml:"grace_minutes"`
	} `yaml:"reconciler"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Server.Addr == "" {
		return nil, errors.New("server.addr is required")
	}
	if cfg.Cashfree.AppID == "" || cfg.Cashfree.SecretKey == "" {
		return nil, errors.New("cashfree credentials are incomplete")
	}
	if cfg.Client.URL == "" {
		return nil, errors.New("client.url is required")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("CASHFREE_BASE_URL"); v != "" {
		cfg.Cashfree.BaseURL = v
	}
	if v := os.Getenv("CASHFREE_APP_ID"); v != "" {
		cfg.Cashfree.AppID = v
	}
	if v := os.Getenv("CASHFREE_SECRET_KEY"); v != "" {
		cfg.Cashfree.SecretKey = v
	}
	if v := os.Getenv("CASHFREE_API_VERSION"); v != "" {
		cfg.Cashfree.APIVersion = v
	}
	if v := os.Getenv("CLIENT_URL"); v != "" {
		cfg.Client.URL = v
	}
	if v := os.Getenv("ORDER_TTL_MINUTES"); v != "" {
		cfg.Orders.TTLMinutes = atoiOr(cfg.Orders.TTLMinutes, v)
	}
	if v := os.Getenv("ORDER_NOTE"); v != "" {
		cfg.Orders.Note = v
	}
	if v := os.Getenv("RECONCILER_INTERVAL_SECONDS"); v != "" {
		cfg.Reconciler.IntervalSeconds = atoi64Or(cfg.Reconciler.IntervalSeconds, v)
	}
	if v := os.Getenv("RECONCILER_GRACE_MINUTES"); v != "" {
		cfg.Reconciler.GraceMinutes = atoiOr(cfg.Reconciler.GraceMinutes, v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Cashfree.BaseURL == "" {
		cfg.Cashfree.BaseURL = cashfree.SandboxBaseURL
	}
	if cfg.Cashfree.APIVersion == "" {
		cfg.Cashfree.APIVersion = cashfree.DefaultAPIVersion
	}
	if cfg.Orders.TTLMinutes <= 0 {
		cfg.Orders.TTLMinutes = 30
	}
	if cfg.Orders.Note == "" {
		cfg.Orders.Note = "Payment for order"
	}
	if cfg.Reconciler.IntervalSeconds <= 0 {
		cfg.Reconciler.IntervalSeconds = 60
	}
	if cfg.Reconciler.GraceMinutes <= 0 {
		cfg.Reconciler.GraceMinutes = 5
	}
}

func atoiOr(fallback int, v string) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func atoi64Or(fallback int64, v string) int64 {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
