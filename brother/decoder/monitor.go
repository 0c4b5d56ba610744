package decoder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

const (
	KeyPowerOnTime     = "Power on time"
	KeyOperatingTime   = "Operating time"
	KeyCuttingTime     = "Cutting time"
	KeyCycleTime       = "Cycle time"
	KeySpindleRunTime  = "Spindle run time"
	FormattedKeySuffix = " Formatted"
)

// MonitorKeys - таймеры в порядке записей K01..K05.
var MonitorKeys = []string{
	KeyPowerOnTime,
	KeyOperatingTime,
	KeyCuttingTime,
	KeyCycleTime,
	KeySpindleRunTime,
}

// DecodeMonitor разбирает таймеры MONTR. Значение хранится в секундах и
// дублируется в формате "HH:MM:SS".
func DecodeMonitor(lines []string) map[string]string {
	out := make(map[string]string)
	for _, rec := range parseRecords(lines) {
		n, ok := parseIndexed(rec.symbol, "K")
		if !ok || n < 1 || n > len(MonitorKeys) {
			continue
		}
		raw, ok := rec.field(1)
		if !ok {
			continue
		}
		d, ok := parseTimer(raw)
		if !ok {
			continue
		}
		key := MonitorKeys[n-1]
		out[key] = strconv.FormatInt(int64(d/time.Second), 10)
		out[key+FormattedKeySuffix] = formatDuration(d)
	}
	return out
}

// parseTimer понимает секунды ("3725") и "H:MM:SS" ("1:02:05").
func parseTimer(raw string) (time.Duration, bool) {
	if !strings.Contains(raw, ":") {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || sec < 0 {
			return 0, false
		}
		return time.Duration(sec) * time.Second, true
	}

	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var total int64
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 || (i > 0 && v > 59) {
			return 0, false
		}
		total = total*60 + v
	}
	return time.Duration(total) * time.Second, true
}

// formatDuration форматирует time.Duration в строку "HH:MM:SS".
func formatDuration(d time.Duration) string {
	totalSeconds := int64(d.Seconds())
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

type Monitor struct{}

func (Monitor) Family() string { return FamilyMonitor }

func (Monitor) FileName(*schema.Config, schema.UnitSystem) string { return FileMonitor }

func (Monitor) Decode(lines []string, _ Context) map[string]string { return DecodeMonitor(lines) }
