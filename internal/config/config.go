package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// Config is the bot configuration, read from the environment.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// Prefix pipeline.
	Prefixes         []string `env:"COMMAND_PREFIXES" envSeparator:"," envDefault:"!"`
	MentionPrefix    bool     `env:"MENTION_PREFIX" envDefault:"true"`
	SpaceAfterPrefix bool     `env:"SPACE_AFTER_PREFIX" envDefault:"false"`
	CaseSensitive    bool     `env:"CASE_SENSITIVE_COMMANDS" envDefault:"false"`

	// Gate.
	Owners           []string `env:"OWNER_IDS" envSeparator:","`
	IgnoreBots       bool     `env:"IGNORE_BOTS" envDefault:"true"`
	UserBlacklist    []string `env:"USER_BLACKLIST" envSeparator:","`
	ChannelBlacklist []string `env:"CHANNEL_BLACKLIST" envSeparator:","`
	GuildBlacklist   []string `env:"GUILD_BLACKLIST" envSeparator:","`

	// Slash command sync.
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	CommandCacheDir   string `env:"COMMAND_CACHE_DIR" envDefault:"data/commands"`

	HistoryPath string `env:"HISTORY_PATH" envDefault:"data/history.json"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// New parses the configuration from the environment.
func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
