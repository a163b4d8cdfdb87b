package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server      ServerConfig      `envPrefix:"SERVER_"`
	Database    DatabaseConfig    `envPrefix:"DATABASE_"`
	Auth        AuthConfig        `envPrefix:"AUTH_"`
	LLM         LLMConfig         `envPrefix:"LLM_"`
	RemoteFlags RemoteFlagsConfig `envPrefix:"REMOTE_FLAGS_"`
	Onboarding  OnboardingConfig  `envPrefix:"ONBOARDING_"`
}

type ServerConfig struct {
	Addr        string `env:"ADDR" envDefault:"0.0.0.0:8080"`
	CORSPattern string `env:"CORS_PATTERN" envDefault:"^https?://localhost(:\\d+)?$"`
}

type DatabaseConfig struct {
	Hosts    []string `env:"HOSTS" envDefault:"localhost:27017"`
	Database string   `env:"DATABASE" envDefault:"complybot"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	AuthDB   string   `env:"AUTH_DB" envDefault:"admin"`
	Direct   bool     `env:"DIRECT" envDefault:"true"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
}

type LLMConfig struct {
	// GoogleAIAPIKey is the fallback key; the remote-flag value
	// gemini_api_key takes precedence once flags are activated.
	GoogleAIAPIKey string        `env:"GOOGLE_AI_API_KEY"`
	Model          string        `env:"MODEL" envDefault:"googleai/gemini-2.0-flash"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	Temperature    float32       `env:"TEMPERATURE" envDefault:"0.7"`
	TopK           float32       `env:"TOP_K" envDefault:"40"`
	TopP           float32       `env:"TOP_P" envDefault:"0.95"`
}

type RemoteFlagsConfig struct {
	URL string `env:"URL"`
	// MinFetchInterval should be seconds in development and hours in
	// production deployments.
	MinFetchInterval time.Duration `env:"MIN_FETCH_INTERVAL" envDefault:"12h"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
}

type OnboardingConfig struct {
	// CompletionPhrases is the interview completion phrase list, matched by
	// normalized substring containment. Pipe-separated because the phrases
	// themselves contain commas.
	CompletionPhrases []string `env:"COMPLETION_PHRASES" envSeparator:"|" envDefault:"i believe i have enough information now. thank you for your detailed responses. i am ready to generate your compliance dashboard.|thank you for all the information|i have sufficient information|onboarding complete|i have enough information now|i believe i have enough information|okay, great! i am ready for the compliance dashboard."`
	// MinInterviewTurns is the AI-context entry count that must be exceeded
	// before a matched phrase ends the interview.
	MinInterviewTurns int           `env:"MIN_INTERVIEW_TURNS" envDefault:"8"`
	TypingDelay       time.Duration `env:"TYPING_DELAY" envDefault:"1s"`
	SettleDelay       time.Duration `env:"SETTLE_DELAY" envDefault:"2s"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
