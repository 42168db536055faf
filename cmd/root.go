package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-matcher"
)

type Config struct {
	Webhook   *WebhookConfig  `mapstructure:"webhook"`
	UserAgent string          `mapstructure:"user-agent"`
	Progress  *ProgressConfig `mapstructure:"progress"`
}

type WebhookConfig struct {
	URL string `mapstructure:"url"`
	// Timeout of zero keeps the transport default.
	Timeout time.Duration `mapstructure:"timeout"`
	Auth    *AuthConfig   `mapstructure:"auth"`
}

// AuthConfig matches the header authentication of n8n webhooks.
type AuthConfig struct {
	Header    string `mapstructure:"header"`
	Value     string `mapstructure:"value"`
	ValueFile string `mapstructure:"value-file"`
}

type ProgressConfig struct {
	ResetDelay time.Duration `mapstructure:"reset-delay"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-matcher uploads a PDF résumé to a matching webhook and shows the best fitting jobs",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("webhook.url", "CV_MATCHER_WEBHOOK_URL"); err != nil {
		log.Fatalf("binding CV_MATCHER_WEBHOOK_URL environment variable: %v", err)
	}
	if err := viper.BindEnv("webhook.auth.value-file", "CV_MATCHER_AUTH_FILE"); err != nil {
		log.Fatalf("binding CV_MATCHER_AUTH_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Environment from .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The webhook may come from flags or env alone, so only an explicit
	// config file is mandatory.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Webhook == nil {
		config.Webhook = &WebhookConfig{}
	}

	return config, nil
}
