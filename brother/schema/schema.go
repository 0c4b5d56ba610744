package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
)

// ControlVersion определяет поколение прошивки ЧПУ, от которого зависит раскладка полей в файлах.
type ControlVersion int

const (
	VersionUnknown ControlVersion = iota
	VersionC00
	VersionD00
)

func (v ControlVersion) String() string {
	switch v {
	case VersionC00:
		return "C00"
	case VersionD00:
		return "D00"
	default:
		return "Unknown"
	}
}

// ParseControlVersion преобразует строку ("C00", "d00", ...) в ControlVersion.
func ParseControlVersion(s string) ControlVersion {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C00":
		return VersionC00
	case "D00":
		return VersionD00
	default:
		return VersionUnknown
	}
}

// ParseControlVersionSetting разбирает настройку поколения. "" и "auto" означают определение
// по файлам-маркерам (VersionUnknown без ошибки). Нераспознанное значение возвращается
// как VersionUnknown с ошибкой ErrUnknownVersion.
func ParseControlVersionSetting(s string) (ControlVersion, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "auto") {
		return VersionUnknown, nil
	}
	if v := ParseControlVersion(trimmed); v != VersionUnknown {
		return v, nil
	}
	return VersionUnknown, fmt.Errorf("%w: %q", apperrors.ErrUnknownVersion, s)
}

// UnitSystem определяет систему единиц, в которой станок отдает линейные величины.
type UnitSystem int

const (
	UnitUnknown UnitSystem = iota
	UnitMetric
	UnitInch
)

// InchToMillimeter - множитель перевода дюймов в миллиметры.
const InchToMillimeter = 25.4

func (u UnitSystem) String() string {
	switch u {
	case UnitMetric:
		return "metric"
	case UnitInch:
		return "inch"
	default:
		return "unknown"
	}
}

// ParseUnitSystem понимает "metric"/"mm"/"m" и "inch"/"in"/"i".
func ParseUnitSystem(s string) UnitSystem {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric", "mm", "m":
		return UnitMetric
	case "inch", "in", "i":
		return UnitInch
	default:
		return UnitUnknown
	}
}

// Suffix возвращает суффикс имени файла. Неизвестная система читается как метрическая.
func (u UnitSystem) Suffix() string {
	if u == UnitInch {
		return "I"
	}
	return "M"
}

// NeedsConversion сообщает, нужно ли переводить линейные значения в миллиметры.
func (u UnitSystem) NeedsConversion() bool {
	return u == UnitInch
}

// Range - замкнутый диапазон допустимых номеров записей.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Config - полная схема файлов для одного поколения ЧПУ.
// Значения неизменяемы: выбираются один раз по ControlVersion и живут всю сессию.
type Config struct {
	Version ControlVersion
	// MarkerFile - файл, наличие которого подтверждает поколение.
	MarkerFile string
	// Precedence - приоритет при определении версии: при нескольких найденных маркерах побеждает больший.
	Precedence int

	ToolTable   ToolTableConfig
	ATC         ATCConfig
	WorkOffsets WorkOffsetConfig
	Macros      MacroConfig
}

var (
	mu       sync.RWMutex
	registry = map[ControlVersion]*Config{
		VersionC00: &c00,
		VersionD00: &d00,
	}
)

// DefaultVersion используется, когда поколение определить не удалось.
const DefaultVersion = VersionC00

// GetConfig возвращает схему для версии. Для неизвестной версии возвращается схема по умолчанию (C00).
func GetConfig(v ControlVersion) *Config {
	cfg, _ := Lookup(v)
	return cfg
}

// Lookup возвращает схему и признак того, что версия зарегистрирована.
// Если версия не найдена, возвращается схема по умолчанию и false.
func Lookup(v ControlVersion) (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()

	if cfg, ok := registry[v]; ok {
		return cfg, true
	}
	return registry[DefaultVersion], false
}

// Register добавляет (или заменяет) схему для нового поколения ЧПУ.
// Декодеры работают только через Config, поэтому новое поколение не требует изменений в их логике.
func Register(cfg *Config) {
	if cfg == nil || cfg.Version == VersionUnknown {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[cfg.Version] = cfg
}

// Unregister удаляет схему. Встроенные C00 и D00 удалить нельзя.
func Unregister(v ControlVersion) {
	if v == VersionC00 || v == VersionD00 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	delete(registry, v)
}

// ByPrecedence возвращает все зарегистрированные схемы в порядке убывания приоритета.
func ByPrecedence() []*Config {
	mu.RLock()
	defer mu.RUnlock()

	configs := make([]*Config, 0, len(registry))
	for _, cfg := range registry {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		if configs[i].Precedence != configs[j].Precedence {
			return configs[i].Precedence > configs[j].Precedence
		}
		return configs[i].Version < configs[j].Version
	})
	return configs
}

// parseRecordID разбирает идентификатор записи вида <prefix><digits> фиксированной ширины.
// Например, "T01" (ширина 2) или "G054" (ширина 3).
func parseRecordID(raw, prefix string, width int) (int, bool) {
	id := strings.TrimSpace(raw)
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	digits := id[len(prefix):]
	if len(digits) != width || !isDigits(digits) {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
