package decoder

import (
	"strconv"

	"github.com/iwtcode/brotherAdapter/brother/schema"
)

const (
	KeyPanelMode       = "Panel mode"
	KeyControllerMode  = "Controller mode"
	KeyFeedOverride    = "Feed override"
	KeyRapidOverride   = "Rapid override"
	KeySpindleOverride = "Spindle override"
	KeySingleBlock     = "Single block"
	KeyEmergencyStop   = "Emergency stop"
	KeyExecution       = "Execution"
)

type panelMode struct {
	panel      string
	controller string
}

// panelModes - режимы переключателя пульта и соответствующий ControllerMode MTConnect.
var panelModes = map[int]panelMode{
	1: {"MEMORY", "AUTOMATIC"},
	2: {"MDI", "MANUAL_DATA_INPUT"},
	3: {"EDIT", "EDIT"},
	4: {"HANDLE", "MANUAL"},
	5: {"JOG", "MANUAL"},
	6: {"ZERO_RETURN", "MANUAL"},
	7: {"TAPE", "AUTOMATIC"},
}

var executionStates = map[int]string{
	0: "READY",
	1: "ACTIVE",
	2: "FEED_HOLD",
	3: "STOPPED",
}

// DecodePanel разбирает файл PANEL. Execution выставляется только при наличии P07.
func DecodePanel(lines []string) map[string]string {
	out := make(map[string]string)
	for _, rec := range parseRecords(lines) {
		raw, ok := rec.field(1)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}

		switch rec.symbol {
		case "P01":
			if mode, ok := panelModes[v]; ok {
				out[KeyPanelMode] = mode.panel
				out[KeyControllerMode] = mode.controller
			}
		case "P02":
			out[KeyFeedOverride] = strconv.Itoa(v)
		case "P03":
			out[KeyRapidOverride] = strconv.Itoa(v)
		case "P04":
			out[KeySpindleOverride] = strconv.Itoa(v)
		case "P05":
			switch v {
			case 0:
				out[KeySingleBlock] = "OFF"
			case 1:
				out[KeySingleBlock] = "ON"
			}
		case "P06":
			switch v {
			case 0:
				out[KeyEmergencyStop] = "ARMED"
			case 1:
				out[KeyEmergencyStop] = "TRIGGERED"
			}
		case "P07":
			if state, ok := executionStates[v]; ok {
				out[KeyExecution] = state
			}
		}
	}
	return out
}

type Panel struct{}

func (Panel) Family() string { return FamilyPanel }

func (Panel) FileName(*schema.Config, schema.UnitSystem) string { return FilePanel }

func (Panel) Decode(lines []string, _ Context) map[string]string { return DecodePanel(lines) }
