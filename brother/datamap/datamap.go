// Package datamap реализует декларативное описание раскладки файла ЧПУ в JSON
// и универсальный декодер по этому описанию.
package datamap

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwtcode/brotherAdapter/brother/decoder"
	"github.com/iwtcode/brotherAdapter/brother/schema"
)

// Типы значений элементов.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeLength = "length"
	TypeEnum   = "enum"
)

// UnitPlaceholder в имени файла заменяется суффиксом системы единиц.
const UnitPlaceholder = "{unit}"

//go:embed positions.json
var defaultMap []byte

type Item struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	EnumValues []string `json:"enumValues,omitempty"`
}

// Line описывает строку файла. Number считается с 1.
type Line struct {
	Number int    `json:"number"`
	Symbol string `json:"symbol"`
	Items  []Item `json:"items"`
}

type DataMap struct {
	FileName string `json:"fileName"`
	Lines    []Line `json:"lines"`
}

// Load читает и проверяет описание.
func Load(r io.Reader) (*DataMap, error) {
	var m DataMap
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode data map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func LoadFile(path string) (*DataMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data map %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default возвращает встроенное описание файла позиций.
func Default() *DataMap {
	m, err := Load(strings.NewReader(string(defaultMap)))
	if err != nil {
		panic(fmt.Sprintf("embedded data map is invalid: %v", err))
	}
	return m
}

func (m *DataMap) Validate() error {
	if strings.TrimSpace(m.FileName) == "" {
		return fmt.Errorf("data map: fileName is required")
	}
	for _, line := range m.Lines {
		if line.Number < 1 {
			return fmt.Errorf("data map: line number must be >= 1, got %d", line.Number)
		}
		if line.Symbol == "" {
			return fmt.Errorf("data map: line %d has no symbol", line.Number)
		}
		for _, item := range line.Items {
			if item.Name == "" {
				return fmt.Errorf("data map: line %d has an item without name", line.Number)
			}
			switch item.Type {
			case TypeString, TypeInt, TypeFloat, TypeLength:
			case TypeEnum:
				if len(item.EnumValues) == 0 {
					return fmt.Errorf("data map: enum item %q has no enumValues", item.Name)
				}
			default:
				return fmt.Errorf("data map: item %q has unknown type %q", item.Name, item.Type)
			}
		}
	}
	return nil
}

// File возвращает имя файла с подставленной системой единиц.
func (m *DataMap) File(unit schema.UnitSystem) string {
	return strings.ReplaceAll(m.FileName, UnitPlaceholder, unit.Suffix())
}

// Decode находит строку с номером Number, сверяет первое поле с Symbol
// и сопоставляет остальные поля элементам по порядку.
func (m *DataMap) Decode(lines []string, unit schema.UnitSystem) map[string]string {
	out := make(map[string]string)
	for _, def := range m.Lines {
		if def.Number > len(lines) {
			continue
		}
		parts := strings.Split(strings.TrimSpace(lines[def.Number-1]), ",")
		if strings.TrimSpace(parts[0]) != def.Symbol {
			continue
		}
		for i, item := range def.Items {
			if i+1 >= len(parts) {
				break
			}
			if v, ok := item.value(strings.TrimSpace(parts[i+1]), unit); ok {
				out[item.Name] = v
			}
		}
	}
	return out
}

func (it Item) value(raw string, unit schema.UnitSystem) (string, bool) {
	if raw == "" {
		return "", false
	}
	switch it.Type {
	case TypeString:
		return raw, true
	case TypeInt:
		if _, err := strconv.Atoi(raw); err != nil {
			return "", false
		}
		return raw, true
	case TypeFloat:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return "", false
		}
		return raw, true
	case TypeLength:
		return decoder.FormatLength(raw, unit)
	case TypeEnum:
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(it.EnumValues) {
			return "", false
		}
		return it.EnumValues[idx], true
	}
	return "", false
}

// Decoder подключает DataMap к общему списку декодеров.
type Decoder struct {
	Map *DataMap
}

var _ decoder.Decoder = Decoder{}

func (Decoder) Family() string { return decoder.FamilyPositions }

func (d Decoder) FileName(_ *schema.Config, unit schema.UnitSystem) string { return d.Map.File(unit) }

func (d Decoder) Decode(lines []string, ctx decoder.Context) map[string]string {
	return d.Map.Decode(lines, ctx.Unit)
}
