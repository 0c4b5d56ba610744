// Package decoder превращает строки файлов ЧПУ Brother в плоские поля телеметрии.
//
// Каждый декодер - чистая функция: строки и схема на входе, map[string]string на выходе.
// Ошибки разбора отдельных полей не прерывают декодирование, поле просто пропускается.
package decoder

import (
	"strconv"
	"strings"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

// Имена файлов, общие для всех поколений.
const (
	FileProgram  = "PRGNAM"
	FileAlarms   = "ALARM"
	FilePanel    = "PANEL"
	FileCounters = "WKCNTR"
	FileMonitor  = "MONTR"
)

// Семейства файлов, используются в логах и метриках.
const (
	FamilyProgram     = "program"
	FamilyAlarms      = "alarms"
	FamilyPanel       = "panel"
	FamilyCounters    = "counters"
	FamilyMonitor     = "monitor"
	FamilyToolTable   = "tool_table"
	FamilyATC         = "atc"
	FamilyWorkOffsets = "work_offsets"
	FamilyMacros      = "macros"
	FamilyPositions   = "positions"
)

// Префиксы ключей табличных семейств.
const (
	PrefixTool       = "Tool "
	PrefixPot        = "ATC Pot "
	PrefixStocker    = "ATC Stocker "
	PrefixWorkOffset = "Work offset "
	PrefixMacro      = "Macro variable "
	PrefixAlarm      = "Alarm "
)

// FieldReader дает доступ к уже декодированным полям (обычно это Snapshot).
type FieldReader interface {
	Get(key string) (string, bool)
}

// Fields - простая реализация FieldReader поверх map.
type Fields map[string]string

func (f Fields) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// Context передается каждому декодеру.
type Context struct {
	Schema *schema.Config
	Unit   schema.UnitSystem
	// Tools используется для перекрестных ссылок по номеру инструмента. Может быть nil.
	Tools FieldReader
}

// Decoder описывает одно семейство файлов.
type Decoder interface {
	Family() string
	FileName(cfg *schema.Config, unit schema.UnitSystem) string
	Decode(lines []string, ctx Context) map[string]string
}

// record - одна запись файла: символ и поля после него.
type record struct {
	symbol string
	fields []string
}

// field возвращает поле по индексу в исходной строке (0 - символ записи).
func (r record) field(idx int) (string, bool) {
	if idx <= 0 || idx > len(r.fields) {
		return "", false
	}
	v := r.fields[idx-1]
	if v == "" {
		return "", false
	}
	return v, true
}

// parseRecords разбивает строки на записи, пропуская пустые строки и комментарии.
func parseRecords(lines []string) []record {
	records := make([]record, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if isComment(l) {
			continue
		}
		parts := strings.Split(l, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		records = append(records, record{symbol: strings.ToUpper(parts[0]), fields: parts[1:]})
	}
	return records
}

func isComment(l string) bool {
	return l == "" || l[0] == '(' || l[0] == ';'
}

// FormatLength нормализует линейную величину. Для дюймовой системы значение переводится в миллиметры
// и печатается с шестью знаками без хвостовых нулей. Метрическое значение возвращается как есть.
func FormatLength(raw string, unit schema.UnitSystem) (string, bool) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}
	if !unit.NeedsConversion() {
		return raw, true
	}
	return formatFloat(v * schema.InchToMillimeter), true
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// formatNumber проверяет, что значение числовое, и возвращает его без пробелов.
func formatNumber(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return "", false
	}
	return raw, true
}

// parseIndexed разбирает "<prefix><digits>" без ограничения ширины, например "C01" или "K5".
func parseIndexed(symbol, prefix string) (int, bool) {
	if !strings.HasPrefix(symbol, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(symbol[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
