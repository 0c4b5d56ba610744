package brother

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

// Config хранит параметры подключения к станку
type Config struct {
	IP        string
	Port      uint16
	TimeoutMs int32
	// Unit задается извне: станок не сообщает систему единиц.
	Unit schema.UnitSystem
	// ControlVersion отключает определение поколения, если отличается от VersionUnknown.
	ControlVersion schema.ControlVersion
	// ControlVersionName - исходное значение настройки: "", "auto", "D00" и т.д.
	ControlVersionName string
	// DataMapPath - путь к JSON-описанию файла позиций; пусто - встроенное описание.
	DataMapPath string
	LogLevel    string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	ip := os.Getenv("CNC_IP")
	if ip == "" {
		ip = "10.0.0.1"
	}

	portStr := os.Getenv("CNC_PORT")
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		port = 10000
	}

	timeoutStr := os.Getenv("CNC_TIMEOUT_MS")
	timeout, err := strconv.ParseInt(timeoutStr, 10, 32)
	if err != nil || timeout == 0 {
		timeout = 5000
	}

	unit := schema.ParseUnitSystem(os.Getenv("CNC_UNIT"))
	if unit == schema.UnitUnknown {
		unit = schema.UnitMetric
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	versionName := os.Getenv("CNC_CONTROL_VERSION")

	return &Config{
		IP:                 ip,
		Port:               uint16(port),
		TimeoutMs:          int32(timeout),
		Unit:               unit,
		ControlVersion:     schema.ParseControlVersion(versionName),
		ControlVersionName: versionName,
		DataMapPath:        os.Getenv("DATAMAP_PATH"),
		LogLevel:           logLevel,
	}
}

// Endpoint возвращает адрес станка в виде "IP:PORT" ("[IPv6]:PORT" для IPv6).
func (c *Config) Endpoint() string {
	return net.JoinHostPort(c.IP, strconv.Itoa(int(c.Port)))
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
