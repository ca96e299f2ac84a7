package freetogame

import "github.com/angelmondragon/gamewishlist-backend/pkg/config"

// OptionsFromConfig maps the catalog section of the app config onto client options.
func OptionsFromConfig(cfg config.CatalogConfig) []Option {
	breaker := DefaultBreakerSettings()
	if cfg.BreakerMinRequests > 0 {
		breaker.MinRequests = cfg.BreakerMinRequests
	}
	if cfg.BreakerFailureRatio > 0 {
		breaker.FailureRatio = cfg.BreakerFailureRatio
	}
	if cfg.BreakerOpenTimeout > 0 {
		breaker.OpenTimeout = cfg.BreakerOpenTimeout
	}

	return []Option{
		WithBaseURL(cfg.BaseURL),
		WithTimeout(cfg.Timeout),
		WithPool(cfg.MaxIdleConns, cfg.IdleConnTimeout),
		WithBreakerSettings(breaker),
	}
}
