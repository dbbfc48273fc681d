package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	MongoURL       string `mapstructure:"MONGO_URL"`
	DBName         string `mapstructure:"DB_NAME"`
	ListenAddr     string `mapstructure:"LISTEN_ADDR"`
	CORSOrigins    string `mapstructure:"CORS_ORIGINS"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	MQTTBroker     string `mapstructure:"MQTT_BROKER"`
	MQTTClientID   string `mapstructure:"MQTT_CLIENT_ID"`
	MQTTEventTopic string `mapstructure:"MQTT_EVENT_TOPIC"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads configuration from .env or env vars
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		println("Error loading .env file: ", err)
	}

	viper.AutomaticEnv()

	viper.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	viper.SetDefault("DB_NAME", "iothome")
	viper.SetDefault("LISTEN_ADDR", ":8000")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("MQTT_CLIENT_ID", "iothome-backend")
	viper.SetDefault("MQTT_EVENT_TOPIC", "home/events")

	cfg := &Config{
		MongoURL:       viper.GetString("MONGO_URL"),
		DBName:         viper.GetString("DB_NAME"),
		ListenAddr:     viper.GetString("LISTEN_ADDR"),
		CORSOrigins:    viper.GetString("CORS_ORIGINS"),
		RedisAddr:      viper.GetString("REDIS_ADDR"),
		MQTTBroker:     viper.GetString("MQTT_BROKER"),
		MQTTClientID:   viper.GetString("MQTT_CLIENT_ID"),
		MQTTEventTopic: viper.GetString("MQTT_EVENT_TOPIC"),
		LogLevel:       viper.GetString("LOG_LEVEL"),
	}
	return cfg, nil
}

// CORSOriginList splits the comma-separated CORS_ORIGINS value
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
