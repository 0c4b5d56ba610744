package mqtt

import (
	"context"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/iwtcode/brotherAdapter/internal/config"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"
)

const connectTimeout = 10 * time.Second

// Publisher отправляет снимки в MQTT-брокер. Топик: <MQTT_TOPIC>/<machine id>.
type Publisher struct {
	client pahomqtt.Client
	topic  string
	qos    byte
	logger *logging.Logger
}

// NewPublisher подключается к брокеру. Дальше клиент переподключается сам.
func NewPublisher(cfg *config.AppConfig, logger *logging.Logger) (interfaces.SnapshotSink, error) {
	p := &Publisher{
		topic:  cfg.MQTT.Topic,
		qos:    byte(cfg.MQTT.QoS),
		logger: logger.WithPrefix("MQTT"),
	}
	if p.qos > 2 {
		p.qos = 1
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)
	opts.SetClientID(cfg.MQTT.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetOnConnectHandler(func(pahomqtt.Client) {
		p.logger.Info("Connected to MQTT broker", "broker", cfg.MQTT.Broker)
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		p.logger.Warn("MQTT connection lost", "error", err)
	})

	p.client = pahomqtt.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connection timeout after %s", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return p, nil
}

func (p *Publisher) Name() string { return "mqtt" }

// Topic возвращает топик для станка.
func (p *Publisher) Topic(key []byte) string {
	if len(key) == 0 {
		return p.topic
	}
	return p.topic + "/" + string(key)
}

// Publish публикует снимок с флагом retained, чтобы новый подписчик сразу получал последнее состояние.
func (p *Publisher) Publish(ctx context.Context, key, value []byte) error {
	token := p.client.Publish(p.Topic(key), p.qos, true, value)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
