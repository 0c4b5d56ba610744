package protocol

import (
	"fmt"
	"strings"
)

const (
	frameMarker = "%"
	lineBreak   = "\r\n"

	// CommandLoad запрашивает содержимое файла ЧПУ по имени.
	CommandLoad = "LOD"
)

// Checksum считает контрольную сумму тела запроса: сумма байт по модулю 256,
// две шестнадцатеричные цифры в верхнем регистре.
func Checksum(body string) string {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum += body[i]
	}
	return fmt.Sprintf("%02X", sum)
}

// BuildRequest собирает кадр запроса "%<command> <argument>\r\n<checksum>%\r\n".
func BuildRequest(command, argument string) string {
	body := command
	if argument != "" {
		body += " " + argument
	}
	return frameMarker + body + lineBreak + Checksum(body) + frameMarker + lineBreak
}

// ExtractLines снимает конверт "%<command>\r\n<data>\r\n<checksum>%\r\n" и возвращает строки данных.
// Если маркеры конверта не найдены, ответ считается неформатированным и делится на строки как есть.
func ExtractLines(raw string) []string {
	if raw == "" {
		return []string{}
	}

	start := strings.Index(raw, lineBreak)
	closing := strings.LastIndex(raw, frameMarker)
	if start < 0 || closing <= start {
		return splitLines(raw)
	}

	end := strings.LastIndex(raw[:closing], lineBreak)
	if end < 0 {
		return splitLines(raw)
	}

	payloadStart := start + len(lineBreak)
	if end <= payloadStart {
		// Конверт без данных: "%LOD\r\nXX%\r\n" или "%LOD\r\n\r\nXX%\r\n".
		return []string{}
	}
	return payloadLines(raw[payloadStart:end])
}

// payloadLines делит данные, уже отделенные от конверта. Пустые строки в конце сохраняются.
func payloadLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, lineBreak)
	if s == "" {
		return []string{}
	}
	return payloadLines(s)
}

// IsAbsent сообщает, что ответ не содержит данных файла: пусто, ERROR... или NOT FOUND.
func IsAbsent(lines []string) bool {
	meaningful := 0
	for _, line := range lines {
		l := strings.ToUpper(strings.TrimSpace(line))
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "ERROR") || l == "NOT FOUND" || strings.HasPrefix(l, "%ERROR") {
			return true
		}
		meaningful++
	}
	return meaningful == 0
}
