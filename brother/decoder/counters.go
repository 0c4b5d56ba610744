package decoder

import (
	"strconv"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

// WorkCounterCount - число счетчиков деталей в файле WKCNTR.
const WorkCounterCount = 4

func WorkCounterKey(n int) string {
	return "Workpiece counter " + strconv.Itoa(n)
}

func WorkCounterTargetKey(n int) string {
	return WorkCounterKey(n) + " Target"
}

// DecodeWorkCounters разбирает записи "C01,<текущее>,<целевое>".
func DecodeWorkCounters(lines []string) map[string]string {
	out := make(map[string]string)
	for _, rec := range parseRecords(lines) {
		n, ok := parseIndexed(rec.symbol, "C")
		if !ok || n < 1 || n > WorkCounterCount {
			continue
		}
		if v, ok := rec.field(1); ok {
			if _, err := strconv.Atoi(v); err == nil {
				out[WorkCounterKey(n)] = v
			}
		}
		if v, ok := rec.field(2); ok {
			if _, err := strconv.Atoi(v); err == nil {
				out[WorkCounterTargetKey(n)] = v
			}
		}
	}
	return out
}

type WorkCounters struct{}

func (WorkCounters) Family() string { return FamilyCounters }

func (WorkCounters) FileName(*schema.Config, schema.UnitSystem) string { return FileCounters }

func (WorkCounters) Decode(lines []string, _ Context) map[string]string {
	return DecodeWorkCounters(lines)
}
