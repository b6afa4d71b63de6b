package config

import "time"

type Redis struct {
	URL        string        `env:"REDIS_URL,required"`
	SummaryTTL time.Duration `env:"REDIS_SUMMARY_TTL" envDefault:"1h"`
}
