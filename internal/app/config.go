package app

import (
	"strings"

	"github.com/slateroom/slateroom-backend/internal/platform/envutil"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/reconcile"
)

type Config struct {
	Port                string
	Environment         string
	Version             string
	JWTSecretKey        string
	FuzzyThreshold      float64
	AllowOrigins        []string
	DetectionServiceURL string
}

func LoadConfig(log *logger.Logger) Config {
	origins := []string{}
	for _, o := range strings.Split(envutil.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return Config{
		Port:                envutil.GetEnv("PORT", "8080", log),
		Environment:         envutil.GetEnv("APP_ENV", "development", log),
		Version:             envutil.GetEnv("APP_VERSION", "dev", log),
		JWTSecretKey:        envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		FuzzyThreshold:      envutil.GetEnvAsFloat("FUZZY_MATCH_THRESHOLD", reconcile.DefaultFuzzyThreshold, log),
		AllowOrigins:        origins,
		DetectionServiceURL: envutil.GetEnv("DETECTION_SERVICE_URL", "", log),
	}
}
