package decoder

import (
	"strconv"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

// Атрибуты инструмента в ключах "Tool <n> <attr>".
const (
	ToolAttrLength          = "Length"
	ToolAttrDiameter        = "Diameter"
	ToolAttrLife            = "Life"
	ToolAttrLifeLimit       = "Life Limit"
	ToolAttrName            = "Name"
	ToolAttrGroup           = "Group"
	ToolAttrPeripheralSpeed = "Peripheral Speed"
)

// ToolKey возвращает ключ атрибута инструмента, например "Tool 5 Diameter".
func ToolKey(tool int, attr string) string {
	return PrefixTool + strconv.Itoa(tool) + " " + attr
}

// DecodeToolTable разбирает таблицу инструментов в два прохода:
// сначала группы (Y##), затем сами инструменты (T##) по смещениям из схемы.
func DecodeToolTable(lines []string, cfg schema.ToolTableConfig, unit schema.UnitSystem) map[string]string {
	out := make(map[string]string)
	records := parseRecords(lines)

	groups := make(map[int]int)
	for _, rec := range records {
		group, ok := cfg.NormalizeGroup(rec.symbol)
		if !ok {
			continue
		}
		for _, raw := range rec.fields {
			tool, err := strconv.Atoi(raw)
			if err != nil || !cfg.Valid(tool) {
				continue
			}
			groups[tool] = group
		}
	}

	for _, rec := range records {
		tool, ok := cfg.Normalize(rec.symbol)
		if !ok || !cfg.Valid(tool) {
			continue
		}

		linear := func(f schema.ToolField) (string, bool) {
			return toolValue(rec, cfg, f, func(raw string) (string, bool) { return FormatLength(raw, unit) })
		}
		numeric := func(f schema.ToolField) (string, bool) {
			return toolValue(rec, cfg, f, formatNumber)
		}

		if v, ok := linear(schema.ToolLength); ok {
			out[ToolKey(tool, ToolAttrLength)] = v
		}
		if v, ok := linear(schema.ToolDiameter); ok {
			out[ToolKey(tool, ToolAttrDiameter)] = v
		}
		if v, ok := numeric(schema.ToolLife); ok {
			out[ToolKey(tool, ToolAttrLife)] = v
		}
		if v, ok := numeric(schema.ToolLifeLimit); ok {
			out[ToolKey(tool, ToolAttrLifeLimit)] = v
		}
		if cfg.HasPeripheralSpeed {
			if v, ok := numeric(schema.ToolPeripheralSpeed); ok {
				out[ToolKey(tool, ToolAttrPeripheralSpeed)] = v
			}
		}
		if idx, ok := cfg.Offset(schema.ToolName); ok {
			if name, ok := rec.field(idx); ok {
				out[ToolKey(tool, ToolAttrName)] = name
			}
		}
		if group, ok := groups[tool]; ok {
			out[ToolKey(tool, ToolAttrGroup)] = strconv.Itoa(group)
		}
	}
	return out
}

// toolValue возвращает числовое поле инструмента. Отсутствующее поле дает "0",
// нечисловое пропускается.
func toolValue(rec record, cfg schema.ToolTableConfig, f schema.ToolField, format func(string) (string, bool)) (string, bool) {
	idx, ok := cfg.Offset(f)
	if !ok {
		return "", false
	}
	raw, ok := rec.field(idx)
	if !ok {
		return "0", true
	}
	return format(raw)
}

type ToolTable struct{}

func (ToolTable) Family() string { return FamilyToolTable }

func (ToolTable) FileName(cfg *schema.Config, unit schema.UnitSystem) string {
	return cfg.ToolTable.File(unit)
}

func (ToolTable) Decode(lines []string, ctx Context) map[string]string {
	return DecodeToolTable(lines, ctx.Schema.ToolTable, ctx.Unit)
}
