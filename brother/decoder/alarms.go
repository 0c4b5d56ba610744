package decoder

import (
	"strconv"
	"strings"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

const (
	KeyAlarmCount = "Alarm count"
	KeyAlarms     = "Alarms"
	// AlarmSeparator разделяет коды в сводном поле Alarms.
	AlarmSeparator = "|"
)

// AlarmKey возвращает ключ n-й активной ошибки (нумерация с 1).
func AlarmKey(n int) string {
	return PrefixAlarm + strconv.Itoa(n)
}

// alarmCategories - префиксы категорий по двум старшим цифрам кода.
// Таблица восстановлена по наблюдаемым кодам и не подтверждена документацией.
var alarmCategories = map[string]string{
	"01": "EX",
	"02": "SV",
	"03": "SP",
	"04": "OT",
	"05": "IO",
	"06": "MC",
	"07": "SM",
	"08": "PS",
	"09": "AT",
	"10": "SY",
}

// DecodeAlarmCode переводит числовой код ошибки в отображаемый вид ("052039" -> "IO2039").
// Коды "0", из одних нулей и пустые ошибками не считаются.
func DecodeAlarmCode(raw string) (string, bool) {
	code := strings.TrimSpace(raw)
	if code == "" || strings.Trim(code, "0") == "" {
		return "", false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	if len(code) == 5 {
		code = "0" + code
	}

	switch {
	case len(code) <= 4:
		return leftPad(code, 4), true
	case len(code) == 6:
		if cat, ok := alarmCategories[code[:2]]; ok {
			return cat + code[2:], true
		}
	}

	// Эвристика для искаженных кодов: ищем категорию в окнах по 6 цифр с четным смещением.
	for i := 0; i+6 <= len(code); i += 2 {
		if cat, ok := alarmCategories[code[i:i+2]]; ok {
			return cat + code[i+2:i+6], true
		}
	}

	stripped := strings.TrimRight(code, "0")
	if len(stripped) > 4 {
		stripped = stripped[len(stripped)-4:]
	}
	return leftPad(stripped, 4), true
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// DecodeAlarms разбирает файл ALARM. Символ ';' в этом формате также завершает запись,
// поэтому строка может содержать несколько записей, а строка, начинающаяся с ';' и
// содержащая цифры, - продолжение списка кодов.
func DecodeAlarms(lines []string) map[string]string {
	out := make(map[string]string)
	if len(lines) == 0 {
		return out
	}

	var codes []string
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if l == "" || l[0] == '(' {
			continue
		}
		if l[0] == ';' && !strings.ContainsAny(l, "0123456789") {
			continue
		}

		for _, segment := range strings.Split(l, ";") {
			raw, ok := alarmSegmentCode(segment)
			if !ok {
				continue
			}
			if code, ok := DecodeAlarmCode(raw); ok {
				codes = append(codes, code)
			}
		}
	}

	for i, code := range codes {
		out[AlarmKey(i+1)] = code
	}
	out[KeyAlarmCount] = strconv.Itoa(len(codes))
	out[KeyAlarms] = strings.Join(codes, AlarmSeparator)
	return out
}

// alarmSegmentCode извлекает код из "E01,052039" или из голого "052039".
func alarmSegmentCode(segment string) (string, bool) {
	s := strings.TrimSpace(segment)
	if s == "" {
		return "", false
	}
	parts := strings.Split(s, ",")
	symbol := strings.ToUpper(strings.TrimSpace(parts[0]))
	if _, ok := parseIndexed(symbol, "E"); ok {
		if len(parts) < 2 {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if len(parts) == 1 {
		return symbol, true
	}
	return "", false
}

type Alarms struct{}

func (Alarms) Family() string { return FamilyAlarms }

func (Alarms) FileName(*schema.Config, schema.UnitSystem) string { return FileAlarms }

func (Alarms) Decode(lines []string, _ Context) map[string]string { return DecodeAlarms(lines) }
