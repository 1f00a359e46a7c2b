package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-reviewer"
)

type Config struct {
	Concurrent         bool          `mapstructure:"concurrent"`
	JobDescriptionFile string        `mapstructure:"job-description-file"`
	Server             *ServerConfig `mapstructure:"server"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	UploadDir   string `mapstructure:"upload-dir"`
	SSLCert     string `mapstructure:"ssl-cert"`
	SSLKey      string `mapstructure:"ssl-key"`
	MaxUploadMB int64  `mapstructure:"max-upload-mb"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-reviewer scores a PDF resume with a fixed set of heuristics",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"server.port":          "PORT",
		"server.ssl-cert":      "SSL_CERT_PATH",
		"server.ssl-key":       "SSL_KEY_PATH",
		"server.upload-dir":    "UPLOAD_DIR",
		"job-description-file": "JOB_DESCRIPTION_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.upload-dir", "uploads")
	viper.SetDefault("server.max-upload-mb", 10)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-reviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless set explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
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
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}
