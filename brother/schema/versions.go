package schema

var c00 = Config{
	Version:    VersionC00,
	MarkerFile: "VERC00",
	Precedence: 10,
	ToolTable: ToolTableConfig{
		FileFormat: "TOLN%s1",
		Tools:      Range{Min: 1, Max: 99},
		IDWidth:    2,
		Offsets: map[ToolField]int{
			ToolLength:    1,
			ToolDiameter:  2,
			ToolLifeLimit: 3,
			ToolLife:      4,
			ToolName:      5,
		},
	},
	ATC: ATCConfig{
		FileName:      "ATCTL",
		MagazineSlots: Range{Min: 1, Max: 22},
		SlotWidth:     2,
		CapTool:       100,
	},
	WorkOffsets: WorkOffsetConfig{
		FileFormat:    "WKOF%s1",
		StandardWidth: 2,
		Standard:      Range{Min: 54, Max: 59},
		ExtendedWidth: 2,
		Extended:      Range{Min: 1, Max: 48},
	},
	Macros: MacroConfig{
		FileName:  "MCRN1",
		Variables: Range{Min: 500, Max: 999},
		Delimiter: DelimiterComma,
		Marker:    "V",
	},
}

var d00 = Config{
	Version:    VersionD00,
	MarkerFile: "VERD00",
	Precedence: 20,
	ToolTable: ToolTableConfig{
		FileFormat: "TOLN%s1",
		Tools:      Range{Min: 1, Max: 300},
		IDWidth:    3,
		Offsets: map[ToolField]int{
			ToolName:            1,
			ToolLength:          2,
			ToolDiameter:        3,
			ToolPeripheralSpeed: 4,
			ToolLifeLimit:       5,
			ToolLife:            6,
		},
		HasPeripheralSpeed: true,
	},
	ATC: ATCConfig{
		FileName:      "ATCTLD",
		MagazineSlots: Range{Min: 1, Max: 31},
		SlotWidth:     2,
		HasStockers:   true,
		StockerSlots:  Range{Min: 1, Max: 14},
		CapTool:       999,
	},
	WorkOffsets: WorkOffsetConfig{
		FileFormat:    "WKOF%s1",
		StandardWidth: 3,
		Standard:      Range{Min: 54, Max: 59},
		ExtendedWidth: 3,
		Extended:      Range{Min: 1, Max: 300},
	},
	Macros: MacroConfig{
		FileName:  "MCRN1",
		Variables: Range{Min: 100, Max: 999},
		Delimiter: DelimiterLine,
		Marker:    "V",
	},
}
