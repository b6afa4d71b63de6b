package config

import "time"

type Auth struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"8h"`
	Issuer    string        `env:"AUTH_ISSUER" envDefault:"shelflife"`

	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}
