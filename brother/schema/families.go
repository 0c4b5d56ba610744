package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ToolField - логическое поле записи инструмента.
type ToolField int

const (
	ToolName ToolField = iota
	ToolLength
	ToolDiameter
	ToolPeripheralSpeed
	ToolLifeLimit
	ToolLife
)

// ToolTableConfig описывает файл таблицы инструментов.
type ToolTableConfig struct {
	// FileFormat содержит %s для суффикса системы единиц.
	FileFormat string
	Tools      Range
	IDWidth    int
	// Offsets - индекс поля в записи T##; отсутствие ключа означает, что поля нет в этом поколении.
	Offsets map[ToolField]int

	HasPeripheralSpeed bool
}

func (c ToolTableConfig) File(u UnitSystem) string {
	return fmt.Sprintf(c.FileFormat, u.Suffix())
}

// Valid проверяет, что номер инструмента допустим для поколения.
func (c ToolTableConfig) Valid(n int) bool {
	return c.Tools.Contains(n)
}

// Offset возвращает индекс поля в записи инструмента.
func (c ToolTableConfig) Offset(f ToolField) (int, bool) {
	idx, ok := c.Offsets[f]
	return idx, ok
}

// Normalize приводит "T01" / "T001" к номеру инструмента.
func (c ToolTableConfig) Normalize(raw string) (int, bool) {
	return parseRecordID(raw, "T", c.IDWidth)
}

// NormalizeGroup приводит "Y01" / "Y001" к номеру группы.
func (c ToolTableConfig) NormalizeGroup(raw string) (int, bool) {
	return parseRecordID(raw, "Y", c.IDWidth)
}

// Виды слотов магазина.
const (
	SlotMagazine     = 'M'
	SlotStockerRight = 'R'
	SlotStockerLeft  = 'L'
)

// SpindleSlot - слот M01 всегда соответствует шпинделю.
const SpindleSlot = 1

// ATCConfig описывает файл управления автоматической сменой инструмента.
type ATCConfig struct {
	FileName string
	// MagazineSlots включает слот шпинделя; номер гнезда = слот - 1.
	MagazineSlots Range
	SlotWidth     int
	HasStockers   bool
	StockerSlots  Range
	// CapTool - значение номера инструмента, означающее заглушку в гнезде.
	CapTool int
}

// Normalize разбирает идентификатор слота ("M05", "R03") и проверяет его диапазон.
func (c ATCConfig) Normalize(raw string) (kind byte, slot int, ok bool) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return 0, 0, false
	}
	kind = id[0]
	switch kind {
	case SlotMagazine:
		slot, ok = parseRecordID(id, "M", c.SlotWidth)
		return kind, slot, ok && c.MagazineSlots.Contains(slot)
	case SlotStockerRight, SlotStockerLeft:
		if !c.HasStockers {
			return 0, 0, false
		}
		slot, ok = parseRecordID(id, string(kind), c.SlotWidth)
		return kind, slot, ok && c.StockerSlots.Contains(slot)
	default:
		return 0, 0, false
	}
}

// Pot возвращает номер гнезда для слота магазина. Для шпинделя ok == false.
func (c ATCConfig) Pot(slot int) (int, bool) {
	if slot == SpindleSlot || !c.MagazineSlots.Contains(slot) {
		return 0, false
	}
	return slot - 1, true
}

// IsNoTool - 0 и значение заглушки означают пустое гнездо.
func (c ATCConfig) IsNoTool(tool int) bool {
	return tool == 0 || tool == c.CapTool
}

// WorkOffsetConfig описывает файл рабочих смещений.
type WorkOffsetConfig struct {
	FileFormat    string
	StandardWidth int
	Standard      Range
	ExtendedWidth int
	Extended      Range
}

func (c WorkOffsetConfig) File(u UnitSystem) string {
	return fmt.Sprintf(c.FileFormat, u.Suffix())
}

// Normalize приводит имя записи к каноническому виду: "G054" -> "G54", "X001" -> "P1".
// Записи вне диапазона поколения отбрасываются.
func (c WorkOffsetConfig) Normalize(raw string) (string, bool) {
	if n, ok := parseRecordID(raw, "G", c.StandardWidth); ok {
		if !c.Standard.Contains(n) {
			return "", false
		}
		return "G" + strconv.Itoa(n), true
	}
	if n, ok := parseRecordID(raw, "X", c.ExtendedWidth); ok {
		if !c.Extended.Contains(n) {
			return "", false
		}
		return "P" + strconv.Itoa(n), true
	}
	return "", false
}

// MacroDelimiter - способ разделения макропеременных в файле.
type MacroDelimiter int

const (
	// DelimiterComma - все переменные в одном буфере через запятую.
	DelimiterComma MacroDelimiter = iota
	// DelimiterLine - одна переменная на строку.
	DelimiterLine
)

// MacroConfig описывает файл макропеременных.
type MacroConfig struct {
	FileName  string
	Variables Range
	Delimiter MacroDelimiter
	Marker    string
}

// Normalize разбирает маркер переменной ("V500") без проверки диапазона.
func (c MacroConfig) Normalize(raw string) (int, bool) {
	id := strings.TrimSpace(raw)
	if !strings.HasPrefix(id, c.Marker) {
		return 0, false
	}
	digits := id[len(c.Marker):]
	if !isDigits(digits) {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c MacroConfig) Valid(n int) bool {
	return c.Variables.Contains(n)
}
