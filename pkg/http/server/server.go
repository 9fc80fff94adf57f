package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
)

type Config struct {
	Port      int
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// ConfigFromViper reads the server.* keys.
func ConfigFromViper() Config {
	return Config{
		Port:      viper.GetInt(util.ConfigServerPort),
		Timeout:   viper.GetDuration(util.ConfigServerTimeout),
		RateLimit: viper.GetFloat64(util.ConfigRateLimit),
		RateBurst: viper.GetInt(util.ConfigRateBurst),
	}
}

// New wraps handler with the request timeout. a zero timeout disables it.
func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	if config.Timeout > 0 {
		handler = http.TimeoutHandler(handler, config.Timeout, util.MessageInternalServerError)
	}
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ReadTimeout:       config.Timeout,
		WriteTimeout:      config.Timeout + 5*time.Second,
		IdleTimeout:       2 * config.Timeout,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
