package brother

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/iwtcode/brotherAdapter/brother/datamap"
	"github.com/iwtcode/brotherAdapter/brother/decoder"
	"github.com/iwtcode/brotherAdapter/brother/protocol"
	"github.com/iwtcode/brotherAdapter/brother/schema"
	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client является основной точкой входа для взаимодействия с библиотекой.
type Client struct {
	requester protocol.Requester
	config    *Config
	logger    *logrus.Logger
	dataMap   *datamap.DataMap

	mu      sync.RWMutex
	version schema.ControlVersion
	schema  *schema.Config
}

// New создает и возвращает новый экземпляр клиента.
// Соединение со станком устанавливается при первом запросе.
func New(cfg *Config) (*Client, error) {
	logger := NewLogger(cfg.LogLevel)
	requester := protocol.NewClient(cfg.Endpoint(), cfg.Timeout(), logger)
	return NewWithRequester(cfg, requester, logger)
}

// NewWithRequester создает клиента поверх произвольной реализации протокола.
func NewWithRequester(cfg *Config, requester protocol.Requester, logger *logrus.Logger) (*Client, error) {
	if logger == nil {
		logger = NewLogger(cfg.LogLevel)
	}

	dm := datamap.Default()
	if cfg.DataMapPath != "" {
		loaded, err := datamap.LoadFile(cfg.DataMapPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load data map: %w", err)
		}
		dm = loaded
	}

	c := &Client{
		requester: requester,
		config:    cfg,
		logger:    logger,
		dataMap:   dm,
	}
	c.setVersion(schema.VersionUnknown)
	return c, nil
}

// NewLogger настраивает logrus так же, как для всех компонентов библиотеки.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()

	if level == "off" || level == "none" {
		logger.SetOutput(io.Discard)
	} else {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		logger.SetLevel(lvl)
		logger.SetOutput(os.Stdout)
	}

	// Настраиваем форматтер с понятным форматом времени
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// Close закрывает соединение со станком.
func (c *Client) Close() error {
	if closer, ok := c.requester.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetLogger возвращает используемый логгер.
func (c *Client) GetLogger() *logrus.Logger {
	return c.logger
}

func (c *Client) Endpoint() string {
	return c.config.Endpoint()
}

func (c *Client) Unit() schema.UnitSystem {
	return c.config.Unit
}

// Version возвращает определенное поколение ЧПУ (VersionUnknown до DetectVersion).
func (c *Client) Version() schema.ControlVersion {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Schema возвращает активную схему файлов.
func (c *Client) Schema() *schema.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.schema
}

func (c *Client) setVersion(v schema.ControlVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version = v
	c.schema = schema.GetConfig(v)
}

// LoadFile читает файл ЧПУ и возвращает строки данных.
// Отсутствие файла возвращается как ErrNoData, сбой связи как ErrTransport.
func (c *Client) LoadFile(ctx context.Context, name string) (lines []string, err error) {
	raw, err := c.requester.Request(ctx, protocol.CommandLoad, name)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedFrame, name, r)
		}
	}()

	lines = protocol.ExtractLines(raw)
	if protocol.IsAbsent(lines) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoData, name)
	}
	return lines, nil
}

// DetectVersion определяет поколение ЧПУ по файлам-маркерам.
// При нескольких найденных маркерах побеждает схема с большим приоритетом (D00 важнее C00).
// Если ни один маркер не найден, используется C00 и пишется предупреждение.
// Транспортная ошибка возвращается вызывающему, чтобы тот повторил попытку позже.
func (c *Client) DetectVersion(ctx context.Context) (schema.ControlVersion, error) {
	if v, ok := c.configuredVersion(); ok {
		c.logger.WithField("version", v).Info("Control version set by configuration")
		c.setVersion(v)
		return v, nil
	}

	for _, cfg := range schema.ByPrecedence() {
		_, err := c.LoadFile(ctx, cfg.MarkerFile)
		if err == nil {
			c.logger.WithFields(logrus.Fields{"version": cfg.Version, "marker": cfg.MarkerFile}).Info("Control version detected")
			c.setVersion(cfg.Version)
			return cfg.Version, nil
		}
		if apperrors.IsTransient(err) {
			return schema.VersionUnknown, err
		}
		c.logger.WithField("marker", cfg.MarkerFile).WithError(err).Debug("Version marker not present")
	}

	c.logger.WithField("fallback", schema.DefaultVersion).
		Warn("No version marker found, falling back to default layout; decoded values may be wrong")
	c.setVersion(schema.DefaultVersion)
	return schema.DefaultVersion, nil
}

// configuredVersion возвращает поколение из конфигурации, если оно задано и для него есть схема.
// Нераспознанная настройка не останавливает работу: пишется предупреждение и включается определение.
func (c *Client) configuredVersion() (schema.ControlVersion, bool) {
	v := c.config.ControlVersion
	if v == schema.VersionUnknown {
		parsed, err := schema.ParseControlVersionSetting(c.config.ControlVersionName)
		if err != nil {
			c.logger.WithError(err).Warn("Control version setting not recognized, detecting from marker files")
			return schema.VersionUnknown, false
		}
		v = parsed
	}
	if v == schema.VersionUnknown {
		return v, false
	}
	if _, ok := schema.Lookup(v); !ok {
		err := fmt.Errorf("%w: no layout registered for %s (%d)", apperrors.ErrUnknownVersion, v, int(v))
		c.logger.WithError(err).Warn("Control version override ignored, detecting from marker files")
		return schema.VersionUnknown, false
	}
	return v, true
}

// FastDecoders опрашиваются каждый цикл.
func (c *Client) FastDecoders() []decoder.Decoder {
	return []decoder.Decoder{
		datamap.Decoder{Map: c.dataMap},
		decoder.Program{},
		decoder.Alarms{},
		decoder.Panel{},
	}
}

// SlowDecoders опрашиваются раз в несколько циклов. Таблица инструментов идет раньше ATC,
// чтобы гнезда магазина видели свежие данные инструментов.
func (c *Client) SlowDecoders() []decoder.Decoder {
	return []decoder.Decoder{
		decoder.WorkCounters{},
		decoder.Monitor{},
		decoder.ToolTable{},
		decoder.ATC{},
		decoder.WorkOffsets{},
		decoder.Macros{},
	}
}

// Read читает файл семейства d и декодирует его. Паника декодера превращается в ошибку.
func (c *Client) Read(ctx context.Context, d decoder.Decoder, tools decoder.FieldReader) (fields map[string]string, err error) {
	cfg := c.Schema()
	lines, err := c.LoadFile(ctx, d.FileName(cfg, c.Unit()))
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			fields = nil
			err = fmt.Errorf("%w: %s decoder: %v", apperrors.ErrMalformedFrame, d.Family(), r)
		}
	}()

	return d.Decode(lines, decoder.Context{Schema: cfg, Unit: c.Unit(), Tools: tools}), nil
}
