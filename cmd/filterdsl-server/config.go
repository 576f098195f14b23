package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the server settings.
type Config struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	Database    string `mapstructure:"database"`
	Table       string `mapstructure:"table"`
	FilterParam string `mapstructure:"filter_param"`
	SortParam   string `mapstructure:"sort_param"`
	JWTKey      string `mapstructure:"jwt_key"`
}

func init() {
	// Bind command-line flags
	pflag.String("listen-addr", "0.0.0.0:8080", "Host and port to listen on")
	pflag.String("database", "./records.db", "Path to the sqlite database")
	pflag.String("table", "records", "Name of the table to serve")
	pflag.String("filter-param", "filter", "Name of the filter query parameter")
	pflag.String("sort-param", "sort", "Name of the sort query parameter")
	pflag.String("jwt-key", "", "HS256 key for bearer auth; empty disables auth")
	pflag.String("config", "", "Path to the configuration file")

	f := pflag.CommandLine
	normalizeFunc := f.GetNormalizeFunc()
	f.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		result := normalizeFunc(fs, name)
		name = strings.ReplaceAll(string(result), "-", "_")
		return pflag.NormalizedName(name)
	})
}

func LoadConfig() (Config, error) {
	var cfg Config

	// Set default values
	viper.SetDefault("listen_addr", "0.0.0.0:8080")
	viper.SetDefault("database", "./records.db")
	viper.SetDefault("table", "records")
	viper.SetDefault("filter_param", "filter")
	viper.SetDefault("sort_param", "sort")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Parse command-line flags
	pflag.Parse()

	// Bind command-line flags to Viper
	viper.BindPFlags(pflag.CommandLine)

	// Bind environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("FILTERDSL")

	// Read configuration file if specified
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("filterdsl.conf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc")
	}

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Using defaults and command line/environment options\n     (%v)\n", err)
	}

	// Unmarshal configuration into struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode into struct, %v", err)
	}

	fmt.Println("Configuration values:")
	fmt.Printf("Listen Addr: %s\n", cfg.ListenAddr)
	fmt.Printf("Database: %s\n", cfg.Database)
	fmt.Printf("Table: %s\n", cfg.Table)
	fmt.Printf("Filter Param: %s\n", cfg.FilterParam)
	fmt.Printf("Sort Param: %s\n", cfg.SortParam)

	return cfg, nil
}
