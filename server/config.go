package server

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment. The deployed variants of this game
// never agreed on capacity (2-player auto-start vs host-started rooms of up
// to 5), so both knobs are explicit here.
type Config struct {
	TCPAddr string `env:"CENTENA_TCP_ADDR" envDefault:"0.0.0.0:1234"`
	WebAddr string `env:"CENTENA_WEB_ADDR" envDefault:"0.0.0.0:1235"`

	// MinPlayers is when a room may start; with AutoStart it starts the
	// moment this many are seated.
	MinPlayers int  `env:"CENTENA_MIN_PLAYERS" envDefault:"2"`
	MaxPlayers int  `env:"CENTENA_MAX_PLAYERS" envDefault:"5"`
	AutoStart  bool `env:"CENTENA_AUTO_START" envDefault:"true"`

	IdleTimeout  time.Duration `env:"CENTENA_IDLE_TIMEOUT" envDefault:"30m"`
	ReapInterval time.Duration `env:"CENTENA_REAP_INTERVAL" envDefault:"1m"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
