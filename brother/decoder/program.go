package decoder

import "github.com/iwtcode/brotherAdapter/brother/schema"

// Ключи полей программы.
const (
	KeyProgramName    = "Program name"
	KeySubprogramName = "Subprogram name"
	KeyProgramLine    = "Program line"
)

var programKeys = map[string]string{
	"P01": KeyProgramName,
	"P02": KeySubprogramName,
	"P03": KeyProgramLine,
}

// DecodeProgram разбирает файл PRGNAM.
func DecodeProgram(lines []string) map[string]string {
	out := make(map[string]string)
	for _, rec := range parseRecords(lines) {
		key, ok := programKeys[rec.symbol]
		if !ok {
			continue
		}
		if v, ok := rec.field(1); ok {
			out[key] = v
		}
	}
	return out
}

type Program struct{}

func (Program) Family() string { return FamilyProgram }

func (Program) FileName(*schema.Config, schema.UnitSystem) string { return FileProgram }

func (Program) Decode(lines []string, _ Context) map[string]string { return DecodeProgram(lines) }
