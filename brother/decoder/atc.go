package decoder

import (
	"strconv"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

const (
	KeySpindleTool = "Spindle Tool Number"
	// StockerSuffix завершает ключ слота накопителя.
	StockerSuffix = " " + PotAttrTool
)

// Атрибуты гнезда магазина в ключах "ATC Pot <p> <attr>".
const (
	PotAttrTool     = "Tool Number"
	PotAttrLength   = "Length"
	PotAttrDiameter = "Diameter"
	PotAttrLife     = "Life"
	PotAttrName     = "Name"
)

func PotKey(pot int, attr string) string {
	return PrefixPot + strconv.Itoa(pot) + " " + attr
}

// StockerKey возвращает ключ слота накопителя, например "ATC Stocker R3 Tool Number".
func StockerKey(side byte, slot int) string {
	return PrefixStocker + string(side) + strconv.Itoa(slot) + StockerSuffix
}

// potCrossRef - атрибуты гнезда, которые берутся из таблицы инструментов, и значения по умолчанию.
var potCrossRef = []struct {
	potAttr  string
	toolAttr string
	fallback string
}{
	{PotAttrLength, ToolAttrLength, "0"},
	{PotAttrDiameter, ToolAttrDiameter, "0"},
	{PotAttrLife, ToolAttrLife, "0"},
	{PotAttrName, ToolAttrName, ""},
}

// DecodeATC разбирает файл управления сменой инструмента.
// Гнезда знают только номер инструмента; длина, диаметр, стойкость и имя берутся из tools.
// Если таблица инструментов еще не прочитана, подставляются значения по умолчанию.
func DecodeATC(lines []string, cfg schema.ATCConfig, toolCfg schema.ToolTableConfig, tools FieldReader) map[string]string {
	out := make(map[string]string)
	for _, rec := range parseRecords(lines) {
		kind, slot, ok := cfg.Normalize(rec.symbol)
		if !ok {
			continue
		}
		raw, ok := rec.field(1)
		if !ok {
			continue
		}
		tool, err := strconv.Atoi(raw)
		if err != nil || cfg.IsNoTool(tool) || !toolCfg.Valid(tool) {
			continue
		}
		toolNumber := strconv.Itoa(tool)

		if kind != schema.SlotMagazine {
			out[StockerKey(kind, slot)] = toolNumber
			continue
		}
		if slot == schema.SpindleSlot {
			out[KeySpindleTool] = toolNumber
			continue
		}

		pot, ok := cfg.Pot(slot)
		if !ok {
			continue
		}
		out[PotKey(pot, PotAttrTool)] = toolNumber
		for _, ref := range potCrossRef {
			value := ref.fallback
			if tools != nil {
				if v, ok := tools.Get(ToolKey(tool, ref.toolAttr)); ok {
					value = v
				}
			}
			out[PotKey(pot, ref.potAttr)] = value
		}
	}
	return out
}

type ATC struct{}

func (ATC) Family() string { return FamilyATC }

func (ATC) FileName(cfg *schema.Config, _ schema.UnitSystem) string { return cfg.ATC.FileName }

func (ATC) Decode(lines []string, ctx Context) map[string]string {
	return DecodeATC(lines, ctx.Schema.ATC, ctx.Schema.ToolTable, ctx.Tools)
}
