package config

import (
	"os"
	"sync"
	"time"
)

type PredictorConfig struct {
	BaseURL string
	Timeout time.Duration
}

var (
	predictorConfig *PredictorConfig
	predictorOnce   sync.Once
)

// LoadPredictorConfig reads the external resume-predictor settings. An
// empty PREDICTOR_API_URL disables the service and analysis falls back to
// local scoring.
func LoadPredictorConfig() *PredictorConfig {
	predictorOnce.Do(func() {
		timeout := 30 * time.Second
		if raw := os.Getenv("PREDICTOR_API_TIMEOUT"); raw != "" {
			if parsed, err := time.ParseDuration(raw); err == nil {
				timeout = parsed
			}
		}
		predictorConfig = &PredictorConfig{
			BaseURL: os.Getenv("PREDICTOR_API_URL"),
			Timeout: timeout,
		}
	})
	return predictorConfig
}
