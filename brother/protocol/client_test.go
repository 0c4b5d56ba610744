package protocol

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCNC отвечает на LOD-запросы содержимым из files. closeAfter закрывает соединение
// после указанного числа ответов.
type fakeCNC struct {
	ln         net.Listener
	files      map[string][]string
	closeAfter int32
	accepted   atomic.Int32
}

func startFakeCNC(t *testing.T, files map[string][]string, closeAfter int32) *fakeCNC {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	f := &fakeCNC{ln: ln, files: files, closeAfter: closeAfter}
	go f.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return f
}

func (f *fakeCNC) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		f.accepted.Add(1)
		go f.handle(conn)
	}
}

func (f *fakeCNC) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	var served int32
	for {
		head, err := r.ReadString('\n')
		if err != nil {
			return
		}
		if _, err := r.ReadString('\n'); err != nil {
			return
		}
		body := strings.TrimSuffix(strings.TrimPrefix(head, "%"), "\r\n")
		parts := strings.SplitN(body, " ", 2)

		lines, ok := f.files[parts[len(parts)-1]]
		if !ok {
			lines = []string{"NOT FOUND"}
		}
		if _, err := conn.Write([]byte(wrap(parts[0], lines...))); err != nil {
			return
		}

		served++
		if f.closeAfter > 0 && served >= f.closeAfter {
			return
		}
	}
}

func newTestClient(addr string) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(addr, time.Second, logger)
}

func TestClientRequest(t *testing.T) {
	srv := startFakeCNC(t, map[string][]string{
		"PRGNAM": {"P01,O1000", "P02,O2000"},
	}, 0)
	client := newTestClient(srv.ln.Addr().String())
	defer client.Close()

	raw, err := client.Request(context.Background(), CommandLoad, "PRGNAM")
	require.NoError(t, err)
	assert.Equal(t, []string{"P01,O1000", "P02,O2000"}, ExtractLines(raw))

	raw, err = client.Request(context.Background(), CommandLoad, "MISSING")
	require.NoError(t, err)
	assert.True(t, IsAbsent(ExtractLines(raw)))

	assert.Equal(t, int32(1), srv.accepted.Load(), "соединение переиспользуется")
}

func TestClientReconnectsAfterDrop(t *testing.T) {
	srv := startFakeCNC(t, map[string][]string{"ALARM": {"E01,0"}}, 1)
	client := newTestClient(srv.ln.Addr().String())
	defer client.Close()

	_, err := client.Request(context.Background(), CommandLoad, "ALARM")
	require.NoError(t, err)

	// Сервер закрыл соединение: первая попытка может упасть, следующая переподключается.
	var lastErr error
	for i := 0; i < 3; i++ {
		if _, lastErr = client.Request(context.Background(), CommandLoad, "ALARM"); lastErr == nil {
			break
		}
		assert.True(t, apperrors.IsTransient(lastErr))
	}
	require.NoError(t, lastErr)
	assert.GreaterOrEqual(t, srv.accepted.Load(), int32(2))
}

func TestClientDialFailureIsTransient(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := newTestClient(addr)
	_, err = client.Request(context.Background(), CommandLoad, "VERC00")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestClientHonoursContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// Сервер принимает соединение и молчит.
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer conn.Close()
			time.Sleep(2 * time.Second)
		}
	}()

	client := newTestClient(ln.Addr().String())
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.Request(ctx, CommandLoad, "PANEL")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.Less(t, time.Since(start), time.Second)
}
