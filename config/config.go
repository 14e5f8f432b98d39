package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Server struct {
	HTTP         string `mapstructure:"HTTP"`
	HTTPPort     int    `mapstructure:"http_port"`
	InternalPort int    `mapstructure:"internal_port"`
}

type JWT struct {
	SecretKey string `mapstructure:"secret_key"`
}

type Ollama struct {
	Address        string `mapstructure:"address"`
	Port           int    `mapstructure:"port"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Notifications struct {
	SendTimeoutSeconds int `mapstructure:"send_timeout_seconds"`
}

type RabbitMQ struct {
	Protocol     string   `mapstructure:"protocol"`
	Host         string   `mapstructure:"host"`
	Port         string   `mapstructure:"port"`
	InternalPort string   `mapstructure:"internal_port"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	VirtualHost  string   `mapstructure:"virtual_host"`
	Exchange     string   `mapstructure:"exchange"`
	Queues       []string `yaml:"queues"`
	RoutingKeys  []string `yaml:"routingKeys"`
}

type Cors struct {
	AllowedOriginExp string `mapstructure:"allowed_origin_regexp"`
	UseTempCors      bool   `mapstructure:"use_temp_cors"`
}

type Config struct {
	Server        Server        `mapstructure:"oracle_engine"`
	JWT           JWT           `mapstructure:"jwt"`
	Ollama        Ollama        `mapstructure:"ollama"`
	Notifications Notifications `mapstructure:"notifications"`
	RabbitMQ      RabbitMQ      `mapstructure:"rabbitMQ"`
	Cors          Cors          `mapstructure:"cors"`
	AppEnv        string        `mapstructure:"app_env"`
}

func GetConfig() (*Config, error) {
	log := zap.S()
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file found or error loading .env file: %v", err)
	} else {
		log.Debug("Successfully loaded .env file")
	}

	// Configure Viper for environment variables
	viper.SetEnvPrefix("") // No prefix for env vars
	viper.AutomaticEnv()   // Ensures environment variables are loaded

	// Set environment variable key replacer to handle nested structs
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	bindEnvVars()

	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		log.Errorf("Unable to decode into struct, %v", err)
		return config, err
	}

	// Handle array environment variables manually
	handleArrayEnvVars(config)

	applyDefaults(config)

	log.Debug("Configuration loaded from environment variables only")
	return config, nil
}

// bindEnvVars manually binds environment variables to viper keys
func bindEnvVars() {
	// Server
	viper.BindEnv("oracle_engine.HTTP", "ORACLE_ENGINE_HTTP")
	viper.BindEnv("oracle_engine.http_port", "ORACLE_ENGINE_HTTP_PORT")
	viper.BindEnv("oracle_engine.internal_port", "ORACLE_ENGINE_INTERNAL_PORT")
	viper.BindEnv("app_env", "APP_ENV")

	// JWT
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	// Ollama
	viper.BindEnv("ollama.address", "OLLAMA_ADDRESS")
	viper.BindEnv("ollama.port", "OLLAMA_PORT")
	viper.BindEnv("ollama.timeout_seconds", "OLLAMA_TIMEOUT_SECONDS")

	// Notifications
	viper.BindEnv("notifications.send_timeout_seconds", "NOTIFICATIONS_SEND_TIMEOUT_SECONDS")

	// RabbitMQ
	viper.BindEnv("rabbitMQ.protocol", "RABBITMQ_PROTOCOL")
	viper.BindEnv("rabbitMQ.host", "RABBITMQ_HOST")
	viper.BindEnv("rabbitMQ.port", "RABBITMQ_PORT")
	viper.BindEnv("rabbitMQ.internal_port", "RABBITMQ_INTERNAL_PORT")
	viper.BindEnv("rabbitMQ.username", "RABBITMQ_USERNAME")
	viper.BindEnv("rabbitMQ.password", "RABBITMQ_PASSWORD")
	viper.BindEnv("rabbitMQ.virtual_host", "RABBITMQ_VIRTUAL_HOST")
	viper.BindEnv("rabbitMQ.exchange", "RABBITMQ_EXCHANGE")

	// CORS
	viper.BindEnv("cors.allowed_origin_regexp", "CORS_ALLOWED_ORIGIN_REGEXP")
	viper.BindEnv("cors.use_temp_cors", "CORS_USE_TEMP_CORS")
}

// handleArrayEnvVars manually handles array environment variables
func handleArrayEnvVars(config *Config) {
	// Handle RabbitMQ Queues
	if queuesStr := os.Getenv("RABBITMQ_QUEUES"); queuesStr != "" {
		config.RabbitMQ.Queues = strings.Split(queuesStr, ",")
		for i, queue := range config.RabbitMQ.Queues {
			config.RabbitMQ.Queues[i] = strings.TrimSpace(queue)
		}
	}

	// Handle RabbitMQ Routing Keys
	if routingKeysStr := os.Getenv("RABBITMQ_ROUTING_KEYS"); routingKeysStr != "" {
		config.RabbitMQ.RoutingKeys = strings.Split(routingKeysStr, ",")
		for i, key := range config.RabbitMQ.RoutingKeys {
			config.RabbitMQ.RoutingKeys[i] = strings.TrimSpace(key)
		}
	}
}

// applyDefaults fills values the service cannot start without.
func applyDefaults(config *Config) {
	if config.Server.HTTP == "" {
		config.Server.HTTP = ":3000"
	}
	if config.Ollama.Address == "" {
		config.Ollama.Address = "http://localhost"
	}
	if config.Ollama.Port == 0 {
		config.Ollama.Port = 11434
	}
	if config.Ollama.TimeoutSeconds == 0 {
		config.Ollama.TimeoutSeconds = 120
	}
	if config.Notifications.SendTimeoutSeconds == 0 {
		config.Notifications.SendTimeoutSeconds = 10
	}
	if config.RabbitMQ.Exchange == "" {
		config.RabbitMQ.Exchange = "oracle_exchange"
	}
	if len(config.RabbitMQ.Queues) == 0 {
		config.RabbitMQ.Queues = []string{"analysis_completed", "analysis_failed", "integration_created", "integration_deleted"}
	}
	if len(config.RabbitMQ.RoutingKeys) == 0 {
		config.RabbitMQ.RoutingKeys = []string{"analysis.completed", "analysis.failed", "integration.created", "integration.deleted"}
	}
}
