package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-tailor/internal/api"
)

const (
	app       = "resume-tailor"
	envPrefix = "RESUME_TAILOR"
)

type Config struct {
	APIURL      string      `mapstructure:"api-url"`
	UserAgent   string      `mapstructure:"user-agent"`
	SessionFile string      `mapstructure:"session-file"`
	Auth        *AuthConfig `mapstructure:"auth"`
}

type AuthConfig struct {
	URL          string `mapstructure:"url"`
	AnonKey      string `mapstructure:"anon-key"`
	AnonKeyFile  string `mapstructure:"anon-key-file"`
	Email        string `mapstructure:"email"`
	PasswordFile string `mapstructure:"password-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-tailor matches your experiences to a job description and writes resume bullets for it",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault("api-url", api.DefaultURL)
	viper.SetDefault("user-agent", api.DefaultUserAgent)

	for _, key := range []string{
		"api-url",
		"user-agent",
		"session-file",
		"auth.url",
		"auth.anon-key",
		"auth.anon-key-file",
		"auth.email",
		"auth.password-file",
	} {
		if err := viper.BindEnv(key); err != nil {
			log.Fatalf("binding environment variable for %s: %v", key, err)
		}
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-tailor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", api.DefaultURL, "base URL of the resume-tailor backend")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() {
	// .env is optional, real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// the default config file is optional, an explicit one is not
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config == nil {
		config = &Config{}
	}
	if config.Auth == nil {
		config.Auth = &AuthConfig{}
	}

	return config, nil
}
