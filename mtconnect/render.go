package mtconnect

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwtcode/brotherAdapter/brother/decoder"
)

const (
	Available   = "AVAILABLE"
	Unavailable = "UNAVAILABLE"
)

// DeviceInfo - описание устройства, которое не зависит от снимка.
type DeviceInfo struct {
	Name         string
	UUID         string
	Sender       string
	InstanceID   int64
	Manufacturer string
	Model        string
	SerialNumber string
}

// BuildProbe собирает документ MTConnectDevices.
func BuildProbe(info DeviceInfo, now time.Time) DevicesDocument {
	device := buildComponent(deviceCatalog)
	device.Name = info.Name
	device.UUID = info.UUID
	device.Description = &Description{
		Manufacturer: info.Manufacturer,
		Model:        info.Model,
		SerialNumber: info.SerialNumber,
	}

	assets := 0
	return DevicesDocument{
		Xmlns:          DevicesNamespace,
		XmlnsXSI:       XSINamespace,
		SchemaLocation: DevicesNamespace + " " + DevicesSchema,
		Header: Header{
			CreationTime:    timestamp(now),
			Sender:          info.Sender,
			InstanceID:      info.InstanceID,
			Version:         HeaderVersion,
			BufferSize:      BufferSize,
			AssetBufferSize: AssetBufferSize,
			AssetCount:      &assets,
		},
		Devices: []Component{device},
	}
}

func buildComponent(def ComponentDef) Component {
	c := Component{
		XMLName: xml.Name{Local: def.Element},
		ID:      def.ID,
		Name:    def.Name,
	}
	for _, d := range def.DataItems {
		c.DataItems = append(c.DataItems, DataItem{
			Category:       d.Category,
			ID:             d.ID,
			Name:           d.Name,
			Type:           d.Type,
			SubType:        d.SubType,
			Units:          d.Units,
			NativeUnits:    d.NativeUnits,
			Representation: d.Representation,
		})
	}
	for _, child := range def.Components {
		c.Components = append(c.Components, buildComponent(child))
	}
	return c
}

// BuildCurrent собирает документ MTConnectStreams по копии снимка.
// Номера последовательности назначаются по порядку документа и не хранятся между запросами.
func BuildCurrent(info DeviceInfo, fields map[string]string, now time.Time) StreamsDocument {
	ts := timestamp(now)
	var seq uint64

	stream := DeviceStream{Name: info.Name, UUID: info.UUID}
	walk(deviceCatalog, func(def ComponentDef) {
		if len(def.DataItems) == 0 {
			return
		}
		cs := ComponentStream{Component: def.Element, Name: def.Name, ComponentID: def.ID}
		for _, d := range def.DataItems {
			for _, obs := range observe(d, fields) {
				seq++
				obs.DataItemID = d.ID
				obs.Name = d.Name
				obs.Timestamp = ts
				obs.Sequence = seq
				switch d.Category {
				case CategorySample:
					cs.Samples = append(cs.Samples, obs)
				case CategoryCondition:
					cs.Condition = append(cs.Condition, obs)
				default:
					cs.Events = append(cs.Events, obs)
				}
			}
		}
		stream.ComponentStreams = append(stream.ComponentStreams, cs)
	})

	return StreamsDocument{
		Xmlns:          StreamsNamespace,
		XmlnsXSI:       XSINamespace,
		SchemaLocation: StreamsNamespace + " " + StreamsSchema,
		Header: Header{
			CreationTime:  ts,
			Sender:        info.Sender,
			InstanceID:    info.InstanceID,
			Version:       HeaderVersion,
			BufferSize:    BufferSize,
			FirstSequence: 1,
			LastSequence:  seq,
			NextSequence:  seq + 1,
		},
		Streams: []DeviceStream{stream},
	}
}

// RenderProbe возвращает XML ответа /probe.
func RenderProbe(info DeviceInfo, now time.Time) ([]byte, error) {
	return marshal(BuildProbe(info, now))
}

// RenderCurrent возвращает XML ответа /current.
func RenderCurrent(info DeviceInfo, fields map[string]string, now time.Time) ([]byte, error) {
	return marshal(BuildCurrent(info, fields, now))
}

// RenderSample возвращает XML ответа /sample. Истории значений нет, поэтому документ совпадает с /current.
func RenderSample(info DeviceInfo, fields map[string]string, now time.Time) ([]byte, error) {
	return RenderCurrent(info, fields, now)
}

func marshal(doc any) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal mtconnect document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

func observe(d DataItemDef, fields map[string]string) []Observation {
	name := elementName(d.Type)

	switch d.Kind {
	case KindAvailability:
		state := Unavailable
		if len(fields) > 0 {
			state = Available
		}
		return []Observation{{XMLName: xml.Name{Local: name}, Value: state}}

	case KindExecution:
		state := fields[decoder.KeyExecution]
		if state == "" {
			state = Unavailable
		}
		return []Observation{{XMLName: xml.Name{Local: name}, Value: state}}

	case KindCondition:
		return conditions(d, fields)

	case KindTable:
		entries := tableEntries(fields, d.Prefix)
		count := len(entries)
		return []Observation{{XMLName: xml.Name{Local: name + "Table"}, Count: &count, Entries: entries}}

	case KindDataSet:
		entries := dataSetEntries(fields, d.Prefix, d.Suffix)
		count := len(entries)
		return []Observation{{XMLName: xml.Name{Local: name + "DataSet"}, Count: &count, Entries: entries}}
	}

	value, ok := fields[d.Key]
	switch {
	case !ok || value == "":
		value = fallback(d)
	case d.Convert != nil:
		value = d.Convert(value)
	}
	return []Observation{{XMLName: xml.Name{Local: name}, SubType: d.SubType, Value: value}}
}

// fallback - значение DataItem, для которого в снимке еще нет данных.
func fallback(d DataItemDef) string {
	if d.Category == CategorySample {
		return "0"
	}
	return ""
}

// conditions строит состояние условия по сводке ошибок:
// Unavailable, пока файл ошибок не прочитан; Normal без ошибок; по одному Fault на каждую ошибку.
func conditions(d DataItemDef, fields map[string]string) []Observation {
	raw, ok := fields[decoder.KeyAlarmCount]
	if !ok {
		return []Observation{{XMLName: xml.Name{Local: "Unavailable"}, Type: d.Type}}
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return []Observation{{XMLName: xml.Name{Local: "Normal"}, Type: d.Type}}
	}

	out := make([]Observation, 0, count)
	for i := 1; i <= count; i++ {
		code := fields[decoder.AlarmKey(i)]
		if code == "" {
			continue
		}
		out = append(out, Observation{
			XMLName:    xml.Name{Local: "Fault"},
			Type:       d.Type,
			NativeCode: code,
			Value:      code,
		})
	}
	if len(out) == 0 {
		return []Observation{{XMLName: xml.Name{Local: "Normal"}, Type: d.Type}}
	}
	return out
}

// tableEntries группирует ключи "<prefix><entry> <cell>" в строки таблицы.
func tableEntries(fields map[string]string, prefix string) []Entry {
	rows := make(map[string][]Cell)
	for key, value := range fields {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		entry, cell, ok := strings.Cut(rest, " ")
		if !ok || entry == "" || cell == "" {
			continue
		}
		rows[entry] = append(rows[entry], Cell{Key: cellKey(cell), Value: value})
	}

	entries := make([]Entry, 0, len(rows))
	for key, cells := range rows {
		sort.Slice(cells, func(i, j int) bool { return cells[i].Key < cells[j].Key })
		entries = append(entries, Entry{Key: key, Cells: cells})
	}
	sortEntries(entries)
	return entries
}

// dataSetEntries собирает ключи "<prefix><entry><suffix>" в набор пар.
func dataSetEntries(fields map[string]string, prefix, suffix string) []Entry {
	var entries []Entry
	for key, value := range fields {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		entry, ok := strings.CutSuffix(rest, suffix)
		if !ok || entry == "" || strings.Contains(entry, " ") {
			continue
		}
		entries = append(entries, Entry{Key: entry, Value: value})
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return naturalLess(entries[i].Key, entries[j].Key) })
}

// naturalLess сравнивает строки с учетом чисел: "P2" < "P10", "G54" < "G55" < "P1".
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, restA := nextChunk(a)
		cb, restB := nextChunk(b)
		if ca != cb {
			na, errA := strconv.Atoi(ca)
			nb, errB := strconv.Atoi(cb)
			if errA == nil && errB == nil {
				if na != nb {
					return na < nb
				}
			} else {
				return ca < cb
			}
		}
		a, b = restA, restB
	}
	return len(a) < len(b)
}

// nextChunk отделяет от s первую группу цифр или первую группу прочих символов.
func nextChunk(s string) (string, string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// cellKey переводит имя атрибута в ключ ячейки: "Life Limit" -> "LIFE_LIMIT".
func cellKey(attr string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(attr), " ", "_"))
}

// elementName переводит тип DataItem в имя элемента: "PATH_FEEDRATE" -> "PathFeedrate".
func elementName(typ string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.ToLower(typ), "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
