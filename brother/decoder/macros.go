package decoder

import (
	"strconv"
	"strings"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

func MacroKey(id int) string {
	return PrefixMacro + strconv.Itoa(id)
}

// DecodeMacros разбирает макропеременные. Способ разделения выбирается один раз по схеме.
func DecodeMacros(lines []string, cfg schema.MacroConfig) map[string]string {
	if cfg.Delimiter == schema.DelimiterLine {
		return decodeMacroLines(lines, cfg)
	}
	return decodeMacroBuffer(lines, cfg)
}

// decodeMacroLines: одна переменная на строку, "V500,1.5".
func decodeMacroLines(lines []string, cfg schema.MacroConfig) map[string]string {
	out := make(map[string]string)
	for _, rec := range parseRecords(lines) {
		id, ok := cfg.Normalize(rec.symbol)
		if !ok || !cfg.Valid(id) {
			continue
		}
		setMacro(out, id, firstValue(rec.fields))
	}
	return out
}

// decodeMacroBuffer: все строки склеиваются в один буфер "V500,1.5,V501,,V502,-2",
// значения берутся между соседними маркерами. Пустое значение - "0".
func decodeMacroBuffer(lines []string, cfg schema.MacroConfig) map[string]string {
	out := make(map[string]string)

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if isComment(l) {
			continue
		}
		parts = append(parts, l)
	}
	if len(parts) == 0 {
		return out
	}

	tokens := strings.Split(strings.Join(parts, ","), ",")
	current := -1
	var values []string
	flush := func() {
		if current >= 0 && cfg.Valid(current) {
			setMacro(out, current, firstValue(values))
		}
	}

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if id, ok := cfg.Normalize(strings.ToUpper(token)); ok {
			flush()
			current, values = id, values[:0]
			continue
		}
		values = append(values, token)
	}
	flush()
	return out
}

func firstValue(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// setMacro записывает значение переменной; пустое становится "0", нечисловое пропускается.
func setMacro(out map[string]string, id int, raw string) {
	if raw == "" {
		out[MacroKey(id)] = "0"
		return
	}
	if v, ok := formatNumber(raw); ok {
		out[MacroKey(id)] = v
	}
}

type Macros struct{}

func (Macros) Family() string { return FamilyMacros }

func (Macros) FileName(cfg *schema.Config, _ schema.UnitSystem) string { return cfg.Macros.FileName }

func (Macros) Decode(lines []string, ctx Context) map[string]string {
	return DecodeMacros(lines, ctx.Schema.Macros)
}
