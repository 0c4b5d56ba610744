package config

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort string
	GinMode    string

	CNC     CNCConfig
	Device  DeviceConfig
	Polling PollingConfig

	Database DatabaseConfig
	Kafka    KafkaConfig
	MQTT     MQTTConfig
	Logging  LoggerConfig

	MetricsEnable bool
	SwaggerEnable bool
}

// CNCConfig описывает подключение к станку
type CNCConfig struct {
	IP             string
	Port           int
	TimeoutMs      int
	Unit           string
	ControlVersion string // auto, C00, D00
	DataMapPath    string
}

// DeviceConfig - параметры устройства MTConnect
type DeviceConfig struct {
	Name         string
	UUID         string
	Manufacturer string
	Model        string
	SerialNumber string
}

// PollingConfig - расписание опроса
type PollingConfig struct {
	IntervalMs int
	SlowEvery  int
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Enable   bool
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

type KafkaConfig struct {
	Enable bool
	Broker string
	Topic  string
}

type MQTTConfig struct {
	Enable   bool
	Broker   string
	ClientID string
	Topic    string
	QoS      int
	Username string
	Password string
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort: getEnv("APP_PORT", "7878"),
		GinMode:    getEnv("GIN_MODE", "release"),
		CNC: CNCConfig{
			IP:             getEnv("CNC_IP", "10.0.0.1"),
			Port:           getEnvAsInt("CNC_PORT", 10000),
			TimeoutMs:      getEnvAsInt("CNC_TIMEOUT_MS", 5000),
			Unit:           getEnv("CNC_UNIT", "metric"),
			ControlVersion: getEnv("CNC_CONTROL_VERSION", "auto"),
			DataMapPath:    getEnv("DATAMAP_PATH", ""),
		},
		Device: DeviceConfig{
			Name:         getEnv("DEVICE_NAME", "brother"),
			UUID:         getEnv("DEVICE_UUID", ""),
			Manufacturer: getEnv("DEVICE_MANUFACTURER", "Brother"),
			Model:        getEnv("DEVICE_MODEL", ""),
			SerialNumber: getEnv("DEVICE_SERIAL", ""),
		},
		Polling: PollingConfig{
			IntervalMs: getEnvAsInt("POLL_INTERVAL_MS", 2000),
			SlowEvery:  getEnvAsInt("SLOW_POLL_EVERY", 5),
		},
		Database: DatabaseConfig{
			Enable:   getEnvAsBool("DB_ENABLE", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "brother_db"),
		},
		Kafka: KafkaConfig{
			Enable: getEnvAsBool("KAFKA_ENABLE", false),
			Broker: getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:  getEnv("KAFKA_TOPIC", "brother_data"),
		},
		MQTT: MQTTConfig{
			Enable:   getEnvAsBool("MQTT_ENABLE", false),
			Broker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
			ClientID: getEnv("MQTT_CLIENT_ID", "brother-adapter"),
			Topic:    getEnv("MQTT_TOPIC", "brother/snapshot"),
			QoS:      getEnvAsInt("MQTT_QOS", 1),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "INFO"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
		MetricsEnable: getEnvAsBool("METRICS_ENABLE", true),
		SwaggerEnable: getEnvAsBool("SWAGGER_ENABLE", false),
	}

	if config.Polling.IntervalMs <= 0 {
		config.Polling.IntervalMs = 2000
	}
	if config.Polling.SlowEvery <= 0 {
		config.Polling.SlowEvery = 1
	}

	return config, nil
}

// Endpoint возвращает адрес станка в виде IP:PORT
func (c CNCConfig) Endpoint() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(c.Port))
}

func (c CNCConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (p PollingConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}
