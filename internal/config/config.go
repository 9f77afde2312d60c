package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	ImageDir string `mapstructure:"image_dir"`
}

// ExportConfig holds document and archive export configuration
type ExportConfig struct {
	CompanyName      string  `mapstructure:"company_name"`
	CurrencySymbol   string  `mapstructure:"currency_symbol"`
	WatermarkPath    string  `mapstructure:"watermark_path"`
	WatermarkOpacity float64 `mapstructure:"watermark_opacity"`
	FontPath         string  `mapstructure:"font_path"`
	ImageBaseDim     int     `mapstructure:"image_base_dim"`
	JPEGQuality      int     `mapstructure:"jpeg_quality"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)

	viper.SetDefault("database.path", "data/projects.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	viper.SetDefault("storage.image_dir", "data/images")

	viper.SetDefault("export.currency_symbol", "₹")
	viper.SetDefault("export.watermark_opacity", 0.15)
	viper.SetDefault("export.image_base_dim", 1200)
	viper.SetDefault("export.jpeg_quality", 90)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("storage.image_dir", "IMAGE_DIR")
	viper.BindEnv("export.company_name", "COMPANY_NAME")
	viper.BindEnv("export.watermark_path", "WATERMARK_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Storage.ImageDir == "" {
		return fmt.Errorf("storage.image_dir is required")
	}
	if c.Export.CompanyName == "" {
		return fmt.Errorf("export.company_name is required")
	}
	if c.Export.WatermarkOpacity < 0 || c.Export.WatermarkOpacity > 1 {
		return fmt.Errorf("export.watermark_opacity must be within [0,1]: %f", c.Export.WatermarkOpacity)
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return fmt.Errorf("export.jpeg_quality must be within [1,100]: %d", c.Export.JPEGQuality)
	}
	return nil
}
