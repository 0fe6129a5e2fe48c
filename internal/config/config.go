package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultPort          = "8080"
	defaultRoundDuration = 60
	defaultMaxRounds     = 5
	defaultRevealDelay   = 3 * time.Second
	defaultMessageRate   = 20.0
	defaultMessageBurst  = 40
	defaultLogLevel      = "info"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RoundDuration  int // seconds
	MaxRounds      int
	RevealDelay    time.Duration
	MessageRate    float64 // inbound messages per second per connection
	MessageBurst   int
	AllowedOrigins []string
	PublicURL      string
	LogLevel       string
	LogPretty      bool
}

// RegisterFlags adds one flag per setting. Every flag can also be given as
// an environment variable, e.g. --round-duration or ROUND_DURATION.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringP("port", "p", defaultPort, "port to listen on (env: PORT)")
	fs.String("database-url", "", "postgres connection string for the game archive (env: DATABASE_URL)")
	fs.Int("round-duration", defaultRoundDuration, "seconds per round (env: ROUND_DURATION)")
	fs.Int("max-rounds", defaultMaxRounds, "rounds per game (env: MAX_ROUNDS)")
	fs.Duration("reveal-delay", defaultRevealDelay, "pause between rounds (env: REVEAL_DELAY)")
	fs.Float64("message-rate", defaultMessageRate, "inbound messages per second per connection (env: MESSAGE_RATE)")
	fs.Int("message-burst", defaultMessageBurst, "inbound message burst per connection (env: MESSAGE_BURST)")
	fs.String("allowed-origins", "", "comma separated websocket origin patterns (env: ALLOWED_ORIGINS)")
	fs.String("public-url", "", "base URL used in share links (env: PUBLIC_URL)")
	fs.String("log-level", defaultLogLevel, "debug, info, warn or error (env: LOG_LEVEL)")
	fs.Bool("log-pretty", true, "human readable console logs (env: LOG_PRETTY)")
}

// Load resolves settings from fs (when non-nil), the environment and the
// defaults, in that order of precedence.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", defaultPort)
	v.SetDefault("database-url", "")
	v.SetDefault("round-duration", defaultRoundDuration)
	v.SetDefault("max-rounds", defaultMaxRounds)
	v.SetDefault("reveal-delay", defaultRevealDelay.String())
	v.SetDefault("message-rate", defaultMessageRate)
	v.SetDefault("message-burst", defaultMessageBurst)
	v.SetDefault("allowed-origins", "")
	v.SetDefault("public-url", "")
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("log-pretty", true)

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = v.BindPFlag(f.Name, f)
		})
	}

	cfg := Config{
		Port:           v.GetString("port"),
		DatabaseURL:    v.GetString("database-url"),
		RoundDuration:  getInt(v, "round-duration", defaultRoundDuration),
		MaxRounds:      getInt(v, "max-rounds", defaultMaxRounds),
		RevealDelay:    getDuration(v, "reveal-delay", defaultRevealDelay),
		MessageRate:    getFloat(v, "message-rate", defaultMessageRate),
		MessageBurst:   getInt(v, "message-burst", defaultMessageBurst),
		AllowedOrigins: splitList(v.GetString("allowed-origins")),
		PublicURL:      strings.TrimRight(v.GetString("public-url"), "/"),
		LogLevel:       strings.ToLower(v.GetString("log-level")),
		LogPretty:      v.GetBool("log-pretty"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %q", c.Port)
	}
	if c.RoundDuration < 1 {
		return fmt.Errorf("round duration must be positive: %d", c.RoundDuration)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be positive: %d", c.MaxRounds)
	}
	if c.RevealDelay < 0 {
		return fmt.Errorf("reveal delay must not be negative: %s", c.RevealDelay)
	}
	if c.MessageRate <= 0 || c.MessageBurst < 1 {
		return fmt.Errorf("message rate and burst must be positive: %g/%d", c.MessageRate, c.MessageBurst)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Unparseable values fall back to the default rather than failing startup.
func getInt(v *viper.Viper, key string, fallback int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(v.GetString(key))); err == nil {
		return i
	}
	return fallback
}

func getFloat(v *viper.Viper, key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64); err == nil {
		return f
	}
	return fallback
}

func getDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key))); err == nil {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
