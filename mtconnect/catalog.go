package mtconnect

import (
	"strconv"

	"github.com/iwtcode/brotherAdapter/brother/decoder"
)

// Категории DataItem.
const (
	CategorySample    = "SAMPLE"
	CategoryEvent     = "EVENT"
	CategoryCondition = "CONDITION"
)

// Представления DataItem.
const (
	RepresentationTable   = "TABLE"
	RepresentationDataSet = "DATA_SET"
)

// Kind определяет, как значение DataItem вычисляется из снимка.
type Kind int

const (
	// KindValue - одно поле снимка по Key.
	KindValue Kind = iota
	// KindAvailability - AVAILABLE, если снимок не пуст.
	KindAvailability
	// KindExecution - поле Execution или UNAVAILABLE.
	KindExecution
	// KindCondition - по одному Fault на активную ошибку.
	KindCondition
	// KindTable - строки "<Prefix><entry> <cell>".
	KindTable
	// KindDataSet - строки "<Prefix><entry><Suffix>".
	KindDataSet
)

// DataItemDef - описание одного DataItem устройства.
type DataItemDef struct {
	ID             string
	Name           string
	Category       string
	Type           string
	SubType        string
	Units          string
	NativeUnits    string
	Representation string

	Kind   Kind
	Key    string
	Prefix string
	Suffix string
	// Convert применяется к найденному значению перед публикацией.
	Convert func(string) string
}

// ComponentDef - узел дерева компонентов устройства.
type ComponentDef struct {
	Element    string
	ID         string
	Name       string
	DataItems  []DataItemDef
	Components []ComponentDef
}

func sample(id, typ, subType, units, key string) DataItemDef {
	return DataItemDef{ID: id, Category: CategorySample, Type: typ, SubType: subType, Units: units, Key: key}
}

func event(id, typ, key string) DataItemDef {
	return DataItemDef{ID: id, Category: CategoryEvent, Type: typ, Key: key}
}

func named(d DataItemDef, name string) DataItemDef {
	d.Name = name
	return d
}

func withSubType(d DataItemDef, subType string) DataItemDef {
	d.SubType = subType
	return d
}

// deviceCatalog - фиксированная модель устройства. Используется и для probe, и для current,
// поэтому идентификаторы DataItem в обоих документах всегда совпадают.
var deviceCatalog = ComponentDef{
	Element: "Device",
	ID:      "dev",
	DataItems: []DataItemDef{
		{ID: "avail", Category: CategoryEvent, Type: "AVAILABILITY", Kind: KindAvailability},
		event("estop", "EMERGENCY_STOP", decoder.KeyEmergencyStop),
	},
	Components: []ComponentDef{
		{
			Element: "Axes",
			ID:      "ax",
			Name:    "base",
			Components: []ComponentDef{
				linearAxis("x", "X"),
				linearAxis("y", "Y"),
				linearAxis("z", "Z"),
				rotaryAxis("a", "A"),
				rotaryAxis("b", "B"),
				{
					Element: "Rotary",
					ID:      "s",
					Name:    "S",
					DataItems: []DataItemDef{
						named(sample("S1speed", "ROTARY_VELOCITY", "ACTUAL", "REVOLUTION/MINUTE", "Spindle speed"), "Sspeed"),
						named(sample("S1load", "LOAD", "", "PERCENT", "Spindle load"), "Sload"),
					},
				},
			},
		},
		{
			Element:   "Controller",
			ID:        "cn",
			Name:      "controller",
			DataItems: controllerItems(),
			Components: []ComponentDef{
				{
					Element:   "Path",
					ID:        "pth",
					Name:      "path",
					DataItems: pathItems(),
				},
			},
		},
		{
			Element: "Auxiliaries",
			ID:      "aux",
			Name:    "auxiliaries",
			Components: []ComponentDef{
				{
					Element: "ToolingDelivery",
					ID:      "td",
					Name:    "tooling",
					Components: []ComponentDef{
						{
							Element: "ToolMagazine",
							ID:      "tm",
							Name:    "magazine",
							DataItems: []DataItemDef{
								event("spindle_tool", "TOOL_NUMBER", decoder.KeySpindleTool),
								{
									ID: "pots", Category: CategoryEvent, Type: "TOOL_NUMBER",
									Representation: RepresentationTable, Kind: KindTable, Prefix: decoder.PrefixPot,
								},
								{
									ID: "stockers", Category: CategoryEvent, Type: "TOOL_NUMBER",
									Representation: RepresentationDataSet, Kind: KindDataSet,
									Prefix: decoder.PrefixStocker, Suffix: decoder.StockerSuffix,
								},
							},
						},
					},
				},
			},
		},
	},
}

func linearAxis(id, name string) ComponentDef {
	return ComponentDef{
		Element: "Linear",
		ID:      id,
		Name:    name,
		DataItems: []DataItemDef{
			named(sample(name+"pos", "POSITION", "ACTUAL", "MILLIMETER", name+" position"), name+"act"),
		},
	}
}

func rotaryAxis(id, name string) ComponentDef {
	return ComponentDef{
		Element: "Rotary",
		ID:      id,
		Name:    name,
		DataItems: []DataItemDef{
			named(sample(name+"pos", "ANGLE", "ACTUAL", "DEGREE", name+" position"), name+"act"),
		},
	}
}

func controllerItems() []DataItemDef {
	items := []DataItemDef{
		event("mode", "CONTROLLER_MODE", decoder.KeyControllerMode),
		{ID: "system", Category: CategoryCondition, Type: "SYSTEM", Kind: KindCondition},
		event("alarm_count", "MESSAGE", decoder.KeyAlarmCount),
		event("alarm_codes", "MESSAGE", decoder.KeyAlarms),
	}
	timers := []struct{ id, key string }{
		{"power_on_time", decoder.KeyPowerOnTime},
		{"operating_time", decoder.KeyOperatingTime},
		{"cutting_time", decoder.KeyCuttingTime},
		{"cycle_time", decoder.KeyCycleTime},
		{"spindle_run_time", decoder.KeySpindleRunTime},
	}
	for _, tm := range timers {
		items = append(items, named(sample(tm.id, "ACCUMULATED_TIME", "", "SECOND", tm.key), tm.id))
	}
	return items
}

func pathItems() []DataItemDef {
	items := []DataItemDef{
		{ID: "execution", Category: CategoryEvent, Type: "EXECUTION", Kind: KindExecution},
		named(event("program", "PROGRAM", decoder.KeyProgramName), "program"),
		named(event("subprogram", "PROGRAM", decoder.KeySubprogramName), "subprogram"),
		named(withSubType(event("line", "LINE_NUMBER", decoder.KeyProgramLine), "ABSOLUTE"), "line"),
		named(event("tool_number", "TOOL_NUMBER", decoder.KeySpindleTool), "tool_number"),
		named(withSubType(event("feed_ovr", "PATH_FEEDRATE_OVERRIDE", decoder.KeyFeedOverride), "PROGRAMMED"), "feed_override"),
		named(withSubType(event("rapid_ovr", "PATH_FEEDRATE_OVERRIDE", decoder.KeyRapidOverride), "RAPID"), "rapid_override"),
		named(withSubType(event("spindle_ovr", "ROTARY_VELOCITY_OVERRIDE", decoder.KeySpindleOverride), "PROGRAMMED"), "spindle_override"),
		named(event("single_block", "SINGLE_BLOCK", decoder.KeySingleBlock), "single_block"),
		{
			ID: "path_feedrate", Name: "feedrate", Category: CategorySample, Type: "PATH_FEEDRATE", SubType: "ACTUAL",
			Units: "MILLIMETER/SECOND", NativeUnits: "MILLIMETER/MINUTE", Key: "Feedrate",
			Convert: perMinuteToPerSecond,
		},
	}

	for n := 1; n <= decoder.WorkCounterCount; n++ {
		id := "part_count_" + strconv.Itoa(n)
		items = append(items,
			named(withSubType(event(id, "PART_COUNT", decoder.WorkCounterKey(n)), "ALL"), id),
			named(withSubType(event(id+"_target", "PART_COUNT", decoder.WorkCounterTargetKey(n)), "TARGET"), id+"_target"),
		)
	}

	items = append(items,
		DataItemDef{
			ID: "work_offsets", Category: CategoryEvent, Type: "WORK_OFFSET",
			Representation: RepresentationTable, Kind: KindTable, Prefix: decoder.PrefixWorkOffset,
		},
		DataItemDef{
			ID: "tool_offsets", Category: CategoryEvent, Type: "TOOL_OFFSET",
			Representation: RepresentationTable, Kind: KindTable, Prefix: decoder.PrefixTool,
		},
		DataItemDef{
			ID: "macro_variables", Category: CategoryEvent, Type: "VARIABLE",
			Representation: RepresentationDataSet, Kind: KindDataSet, Prefix: decoder.PrefixMacro,
		},
	)
	return items
}

func perMinuteToPerSecond(v string) string {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f/60, 'f', -1, 64)
}

// walk обходит дерево компонентов в порядке документа.
func walk(c ComponentDef, fn func(ComponentDef)) {
	fn(c)
	for _, child := range c.Components {
		walk(child, fn)
	}
}
