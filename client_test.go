package brother

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/iwtcode/brotherAdapter/brother/decoder"
	"github.com/iwtcode/brotherAdapter/brother/protocol"
	"github.com/iwtcode/brotherAdapter/brother/schema"
	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCNC - Requester, отвечающий кадрами из набора файлов.
type fakeCNC struct {
	files    map[string][]string
	requests []string
}

func (f *fakeCNC) Request(_ context.Context, command, argument string) (string, error) {
	f.requests = append(f.requests, argument)
	lines, ok := f.files[argument]
	if !ok {
		return "%" + command + "\r\nNOT FOUND\r\n00%\r\n", nil
	}
	data := strings.Join(lines, "\r\n")
	return "%" + command + "\r\n" + data + "\r\n" + protocol.Checksum(data) + "%\r\n", nil
}

func setupTest(t *testing.T, cnc *fakeCNC, cfg *Config) (*Client, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	if cfg == nil {
		cfg = &Config{IP: "127.0.0.1", Port: 10000, TimeoutMs: 1000, Unit: schema.UnitMetric}
	}
	c, err := NewWithRequester(cfg, cnc, logger)
	require.NoError(t, err, "Не удалось создать клиента")
	return c, hook
}

func TestDetectVersionPrefersD00(t *testing.T) {
	c, _ := setupTest(t, &fakeCNC{files: map[string][]string{
		"VERC00": {"C00"},
		"VERD00": {"D00"},
	}}, nil)

	v, err := c.DetectVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.VersionD00, v)
	assert.Equal(t, schema.VersionD00, c.Schema().Version)
}

func TestDetectVersionC00(t *testing.T) {
	cnc := &fakeCNC{files: map[string][]string{"VERC00": {"C00"}}}
	c, _ := setupTest(t, cnc, nil)

	v, err := c.DetectVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.VersionC00, v)
	assert.Equal(t, []string{"VERD00", "VERC00"}, cnc.requests)
}

func TestDetectVersionFallbackWarns(t *testing.T) {
	c, hook := setupTest(t, &fakeCNC{files: map[string][]string{"VERD00": {"ERROR"}}}, nil)

	v, err := c.DetectVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.VersionC00, v)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned, "переход на схему по умолчанию должен быть виден в логе")
}

func TestDetectVersionTransportError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	refused := protocol.RequesterFunc(func(context.Context, string, string) (string, error) {
		return "", fmt.Errorf("%w: dial refused", apperrors.ErrTransport)
	})
	c, err := NewWithRequester(&Config{IP: "127.0.0.1", Port: 10000, Unit: schema.UnitMetric}, refused, logger)
	require.NoError(t, err)

	v, err := c.DetectVersion(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.Equal(t, schema.VersionUnknown, v)
}

func TestDetectVersionOverride(t *testing.T) {
	cnc := &fakeCNC{}
	c, _ := setupTest(t, cnc, &Config{IP: "127.0.0.1", Port: 1, ControlVersion: schema.VersionD00})

	v, err := c.DetectVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.VersionD00, v)
	assert.Empty(t, cnc.requests)
}

// versionWarnings возвращает ошибки из предупреждений, связанных с ErrUnknownVersion.
func versionWarnings(hook *test.Hook) []error {
	var errs []error
	for _, e := range hook.AllEntries() {
		if e.Level != logrus.WarnLevel {
			continue
		}
		if err, ok := e.Data[logrus.ErrorKey].(error); ok && errors.Is(err, apperrors.ErrUnknownVersion) {
			errs = append(errs, err)
		}
	}
	return errs
}

func TestDetectVersionUnrecognizedSettingWarns(t *testing.T) {
	cnc := &fakeCNC{files: map[string][]string{"VERC00": {"C00"}}}
	c, hook := setupTest(t, cnc, &Config{IP: "127.0.0.1", Port: 10000, ControlVersionName: "C01"})

	v, err := c.DetectVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.VersionC00, v)
	assert.Equal(t, []string{"VERD00", "VERC00"}, cnc.requests)

	warnings := versionWarnings(hook)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "C01")
}

func TestDetectVersionUnregisteredOverrideWarns(t *testing.T) {
	cnc := &fakeCNC{files: map[string][]string{"VERD00": {"D00"}}}
	c, hook := setupTest(t, cnc, &Config{IP: "127.0.0.1", Port: 10000, ControlVersion: schema.ControlVersion(42)})

	v, err := c.DetectVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.VersionD00, v)
	assert.Len(t, versionWarnings(hook), 1)
}

func TestDetectVersionAutoIsSilent(t *testing.T) {
	c, hook := setupTest(t, &fakeCNC{files: map[string][]string{"VERD00": {"D00"}}},
		&Config{IP: "127.0.0.1", Port: 10000, ControlVersionName: "auto"})

	v, err := c.DetectVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.VersionD00, v)
	assert.Empty(t, versionWarnings(hook))
}

func TestLoadFileAbsent(t *testing.T) {
	c, _ := setupTest(t, &fakeCNC{files: map[string][]string{"EMPTY": {}}}, nil)

	_, err := c.LoadFile(context.Background(), "MISSING")
	assert.ErrorIs(t, err, apperrors.ErrNoData)

	_, err = c.LoadFile(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, apperrors.ErrNoData)
	assert.False(t, apperrors.IsTransient(err))
}

func TestReadCrossReferencesToolTable(t *testing.T) {
	c, _ := setupTest(t, &fakeCNC{files: map[string][]string{
		"VERC00": {"C00"},
		"TOLNM1": {"T05,30,0.5,0,0,MILL"},
		"ATCTL":  {"M04,5"},
	}}, nil)

	_, err := c.DetectVersion(context.Background())
	require.NoError(t, err)

	tools, err := c.Read(context.Background(), decoder.ToolTable{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.5", tools["Tool 5 Diameter"])

	atc, err := c.Read(context.Background(), decoder.ATC{}, decoder.Fields(tools))
	require.NoError(t, err)
	assert.Equal(t, "0.5", atc["ATC Pot 3 Diameter"])
	assert.Equal(t, "MILL", atc["ATC Pot 3 Name"])
}

type panicDecoder struct{ decoder.Program }

func (panicDecoder) Decode([]string, decoder.Context) map[string]string { panic("boom") }

func TestReadRecoversDecoderPanic(t *testing.T) {
	c, _ := setupTest(t, &fakeCNC{files: map[string][]string{"PRGNAM": {"P01,O1"}}}, nil)

	_, err := c.Read(context.Background(), panicDecoder{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedFrame)
}

func TestDecoderLists(t *testing.T) {
	c, _ := setupTest(t, &fakeCNC{}, nil)

	fast := c.FastDecoders()
	require.NotEmpty(t, fast)
	assert.Equal(t, decoder.FamilyPositions, fast[0].Family())

	var families []string
	for _, d := range c.SlowDecoders() {
		families = append(families, d.Family())
	}
	assert.Less(t, indexOf(families, decoder.FamilyToolTable), indexOf(families, decoder.FamilyATC))
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CNC_IP", "192.168.0.5")
	t.Setenv("CNC_PORT", "")
	t.Setenv("CNC_UNIT", "inch")
	t.Setenv("CNC_CONTROL_VERSION", "d00")

	cfg := Load()
	assert.Equal(t, "192.168.0.5:10000", cfg.Endpoint())
	assert.Equal(t, schema.UnitInch, cfg.Unit)
	assert.Equal(t, schema.VersionD00, cfg.ControlVersion)
	assert.EqualValues(t, 5000, cfg.TimeoutMs)
	assert.Equal(t, "d00", cfg.ControlVersionName)
}

func TestEndpointIPv6(t *testing.T) {
	cfg := &Config{IP: "::1", Port: 10000}
	assert.Equal(t, "[::1]:10000", cfg.Endpoint())

	host, port, err := net.SplitHostPort(cfg.Endpoint())
	require.NoError(t, err)
	assert.Equal(t, "::1", host)
	assert.Equal(t, "10000", port)

	assert.Equal(t, "10.0.0.1:10000", (&Config{IP: "10.0.0.1", Port: 10000}).Endpoint())
}
