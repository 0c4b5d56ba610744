package protocol

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Requester отправляет команду станку и возвращает сырой кадр ответа.
type Requester interface {
	Request(ctx context.Context, command, argument string) (string, error)
}

// RequesterFunc позволяет использовать обычную функцию как Requester.
type RequesterFunc func(ctx context.Context, command, argument string) (string, error)

func (f RequesterFunc) Request(ctx context.Context, command, argument string) (string, error) {
	return f(ctx, command, argument)
}

// Client - TCP-клиент протокола станка.
// Соединение устанавливается лениво и сбрасывается при любой ошибке ввода-вывода,
// следующий запрос переподключается.
type Client struct {
	addr    string
	timeout time.Duration
	logger  logrus.FieldLogger

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

var _ Requester = (*Client)(nil)

// NewClient создает клиента без установки соединения.
func NewClient(addr string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		logger:  logger.WithField("cnc", addr),
	}
}

// Request выполняет один обмен запрос-ответ. Запросы сериализуются.
func (c *Client) Request(ctx context.Context, command, argument string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetDeadline(deadline)

	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.Write([]byte(BuildRequest(command, argument))); err != nil {
		c.dropLocked()
		return "", c.transportError(ctx, "write", err)
	}

	raw, err := c.readFrameLocked()
	if err != nil {
		c.dropLocked()
		return "", c.transportError(ctx, "read", err)
	}
	return raw, nil
}

// Close закрывает текущее соединение.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return c.transportError(ctx, "dial", err)
	}

	c.logger.Debug("Connected to CNC")
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

func (c *Client) dropLocked() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.reader = nil
	c.logger.Debug("Connection to CNC dropped")
}

// readFrameLocked читает кадр целиком: до строки, оканчивающейся на "%\r\n" после строки команды.
func (c *Client) readFrameLocked() (string, error) {
	var b strings.Builder
	for first := true; ; first = false {
		line, err := c.reader.ReadString('\n')
		b.WriteString(line)
		if err != nil {
			return "", err
		}
		if !first && strings.HasSuffix(line, frameMarker+lineBreak) {
			return b.String(), nil
		}
		if first && !strings.HasPrefix(line, frameMarker) {
			// Неформатированный ответ, например "ERROR\r\n".
			return b.String(), nil
		}
	}
}

func (c *Client) transportError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, op, c.addr, ctxErr)
	}
	return fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, op, c.addr, err)
}
