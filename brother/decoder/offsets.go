package decoder

import (
	"github.com/iwtcode/brotherAdapter/brother/schema"
)

// WorkOffsetAxes - порядок осей в записи рабочего смещения.
var WorkOffsetAxes = []struct {
	Name   string
	Linear bool
}{
	{"X", true},
	{"Y", true},
	{"Z", true},
	{"A", false},
	{"B", false},
	{"C", false},
}

// WorkOffsetKey возвращает ключ вида "Work offset G54 X" или "Work offset P12 Z".
func WorkOffsetKey(name, axis string) string {
	return PrefixWorkOffset + name + " " + axis
}

// DecodeWorkOffsets разбирает файл рабочих смещений. Записи с номером вне диапазона схемы
// отбрасываются целиком. Линейные оси переводятся в миллиметры, поворотные нет.
func DecodeWorkOffsets(lines []string, cfg schema.WorkOffsetConfig, unit schema.UnitSystem) map[string]string {
	out := make(map[string]string)
	for _, rec := range parseRecords(lines) {
		name, ok := cfg.Normalize(rec.symbol)
		if !ok {
			continue
		}
		for i, axis := range WorkOffsetAxes {
			raw, ok := rec.field(i + 1)
			if !ok {
				continue
			}
			var v string
			if axis.Linear {
				v, ok = FormatLength(raw, unit)
			} else {
				v, ok = formatNumber(raw)
			}
			if ok {
				out[WorkOffsetKey(name, axis.Name)] = v
			}
		}
	}
	return out
}

type WorkOffsets struct{}

func (WorkOffsets) Family() string { return FamilyWorkOffsets }

func (WorkOffsets) FileName(cfg *schema.Config, unit schema.UnitSystem) string {
	return cfg.WorkOffsets.File(unit)
}

func (WorkOffsets) Decode(lines []string, ctx Context) map[string]string {
	return DecodeWorkOffsets(lines, ctx.Schema.WorkOffsets, ctx.Unit)
}
