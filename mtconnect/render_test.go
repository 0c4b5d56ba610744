package mtconnect

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwtcode/brotherAdapter/brother/decoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testInfo = DeviceInfo{
		Name:         "brother",
		UUID:         "0b7f0a64-0000-5000-8000-000000000000",
		Sender:       "adapter-host",
		InstanceID:   1700000000,
		Manufacturer: "Brother",
	}
	testTime = time.Date(2024, 3, 5, 10, 20, 30, 123456000, time.UTC)
)

// find ищет наблюдение по dataItemId во всех потоках документа.
func find(t *testing.T, doc StreamsDocument, id string) []Observation {
	t.Helper()
	var out []Observation
	for _, ds := range doc.Streams {
		for _, cs := range ds.ComponentStreams {
			for _, group := range [][]Observation{cs.Samples, cs.Events, cs.Condition} {
				for _, obs := range group {
					if obs.DataItemID == id {
						out = append(out, obs)
					}
				}
			}
		}
	}
	require.NotEmpty(t, out, "data item %s not found", id)
	return out
}

func one(t *testing.T, doc StreamsDocument, id string) Observation {
	t.Helper()
	obs := find(t, doc, id)
	require.Len(t, obs, 1)
	return obs[0]
}

func TestCurrentBeforeFirstPoll(t *testing.T) {
	doc := BuildCurrent(testInfo, map[string]string{}, testTime)

	assert.Equal(t, Unavailable, one(t, doc, "avail").Value)
	assert.Equal(t, Unavailable, one(t, doc, "execution").Value)
	assert.Equal(t, "", one(t, doc, "program").Value)
	assert.Equal(t, "", one(t, doc, "tool_number").Value)
	assert.Equal(t, "0", one(t, doc, "Xpos").Value)

	system := one(t, doc, "system")
	assert.Equal(t, "Unavailable", system.XMLName.Local)
	assert.Equal(t, "SYSTEM", system.Type)

	pots := one(t, doc, "pots")
	require.NotNil(t, pots.Count)
	assert.Equal(t, 0, *pots.Count)
	assert.Empty(t, pots.Entries)
}

func TestCurrentMapsSnapshotFields(t *testing.T) {
	fields := map[string]string{
		decoder.KeyProgramName: "O1000",
		decoder.KeyExecution:   "ACTIVE",
		decoder.KeySpindleTool: "7",
		"X position":           "12.5",
		"Feedrate":             "600",
		decoder.KeyAlarmCount:  "0",
	}
	doc := BuildCurrent(testInfo, fields, testTime)

	assert.Equal(t, Available, one(t, doc, "avail").Value)
	assert.Equal(t, "ACTIVE", one(t, doc, "execution").Value)

	program := one(t, doc, "program")
	assert.Equal(t, "Program", program.XMLName.Local)
	assert.Equal(t, "O1000", program.Value)

	assert.Equal(t, "7", one(t, doc, "tool_number").Value)
	assert.Equal(t, "7", one(t, doc, "spindle_tool").Value)

	x := one(t, doc, "Xpos")
	assert.Equal(t, "Position", x.XMLName.Local)
	assert.Equal(t, "ACTUAL", x.SubType)
	assert.Equal(t, "12.5", x.Value)

	assert.Equal(t, "10", one(t, doc, "path_feedrate").Value)
	assert.Equal(t, "Normal", one(t, doc, "system").XMLName.Local)
}

func TestCurrentAlarmFaults(t *testing.T) {
	fields := map[string]string{
		decoder.KeyAlarmCount: "2",
		decoder.AlarmKey(1):   "IO2039",
		decoder.AlarmKey(2):   "SV0010",
		decoder.KeyAlarms:     "IO2039|SV0010",
	}
	doc := BuildCurrent(testInfo, fields, testTime)

	faults := find(t, doc, "system")
	require.Len(t, faults, 2)
	for i, code := range []string{"IO2039", "SV0010"} {
		assert.Equal(t, "Fault", faults[i].XMLName.Local)
		assert.Equal(t, code, faults[i].NativeCode)
		assert.Equal(t, code, faults[i].Value)
	}
	assert.Equal(t, "2", one(t, doc, "alarm_count").Value)
}

func TestCurrentTablesAndDataSets(t *testing.T) {
	fields := map[string]string{
		decoder.WorkOffsetKey("P10", "X"):             "3",
		decoder.WorkOffsetKey("G54", "X"):             "1",
		decoder.WorkOffsetKey("G54", "Z"):             "-2",
		decoder.WorkOffsetKey("P2", "Y"):              "4",
		decoder.ToolKey(3, decoder.ToolAttrLifeLimit): "100",
		decoder.ToolKey(3, decoder.ToolAttrLength):    "45.5",
		decoder.PotKey(2, decoder.PotAttrTool):        "3",
		decoder.StockerKey('R', 4):                    "12",
		decoder.StockerKey('L', 1):                    "5",
		decoder.MacroKey(510):                         "1.5",
		decoder.MacroKey(502):                         "0",
	}
	doc := BuildCurrent(testInfo, fields, testTime)

	offsets := one(t, doc, "work_offsets")
	assert.Equal(t, "WorkOffsetTable", offsets.XMLName.Local)
	require.Len(t, offsets.Entries, 3)
	assert.Equal(t, "G54", offsets.Entries[0].Key)
	assert.Equal(t, []Cell{{Key: "X", Value: "1"}, {Key: "Z", Value: "-2"}}, offsets.Entries[0].Cells)
	assert.Equal(t, "P2", offsets.Entries[1].Key)
	assert.Equal(t, "P10", offsets.Entries[2].Key)

	tools := one(t, doc, "tool_offsets")
	assert.Equal(t, "ToolOffsetTable", tools.XMLName.Local)
	require.Len(t, tools.Entries, 1)
	assert.Equal(t, []Cell{{Key: "LENGTH", Value: "45.5"}, {Key: "LIFE_LIMIT", Value: "100"}}, tools.Entries[0].Cells)

	pots := one(t, doc, "pots")
	require.Len(t, pots.Entries, 1)
	assert.Equal(t, "2", pots.Entries[0].Key)
	assert.Equal(t, []Cell{{Key: "TOOL_NUMBER", Value: "3"}}, pots.Entries[0].Cells)

	stockers := one(t, doc, "stockers")
	assert.Equal(t, "ToolNumberDataSet", stockers.XMLName.Local)
	assert.Equal(t, []Entry{{Key: "L1", Value: "5"}, {Key: "R4", Value: "12"}}, stockers.Entries)

	macros := one(t, doc, "macro_variables")
	assert.Equal(t, "VariableDataSet", macros.XMLName.Local)
	require.NotNil(t, macros.Count)
	assert.Equal(t, 2, *macros.Count)
	assert.Equal(t, []Entry{{Key: "502", Value: "0"}, {Key: "510", Value: "1.5"}}, macros.Entries)
}

func TestCurrentHeaderSequences(t *testing.T) {
	doc := BuildCurrent(testInfo, map[string]string{}, testTime)

	var last uint64
	for _, cs := range doc.Streams[0].ComponentStreams {
		for _, group := range [][]Observation{cs.Samples, cs.Events, cs.Condition} {
			for _, obs := range group {
				assert.Greater(t, obs.Sequence, uint64(0))
				if obs.Sequence > last {
					last = obs.Sequence
				}
			}
		}
	}
	assert.Equal(t, uint64(1), doc.Header.FirstSequence)
	assert.Equal(t, last, doc.Header.LastSequence)
	assert.Equal(t, last+1, doc.Header.NextSequence)
	assert.Equal(t, "2024-03-05T10:20:30.123456Z", doc.Header.CreationTime)
}

func TestProbeAndCurrentShareVersion(t *testing.T) {
	probe, err := RenderProbe(testInfo, testTime)
	require.NoError(t, err)
	current, err := RenderCurrent(testInfo, map[string]string{"X position": "1"}, testTime)
	require.NoError(t, err)

	p, c := string(probe), string(current)
	assert.True(t, strings.HasPrefix(p, "<?xml"))
	assert.Contains(t, p, `<MTConnectDevices xmlns="urn:mtconnect.org:MTConnectDevices:1.7"`)
	assert.Contains(t, p, `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	assert.Contains(t, p, `MTConnectDevices_1.7.xsd`)
	assert.Contains(t, c, `<MTConnectStreams xmlns="urn:mtconnect.org:MTConnectStreams:1.7"`)
	assert.Contains(t, c, `MTConnectStreams_1.7.xsd`)

	for _, doc := range []string{p, c} {
		assert.Contains(t, doc, `creationTime="2024-03-05T10:20:30.123456Z"`)
		assert.Contains(t, doc, `sender="adapter-host"`)
		assert.Contains(t, doc, `instanceId="1700000000"`)
		assert.Contains(t, doc, `version="1.7.0.0"`)
		assert.Contains(t, doc, `bufferSize="131072"`)
	}
}

func TestProbeDataItemsMatchCurrent(t *testing.T) {
	probe := BuildProbe(testInfo, testTime)
	require.Len(t, probe.Devices, 1)
	device := probe.Devices[0]
	assert.Equal(t, "Device", device.XMLName.Local)
	assert.Equal(t, testInfo.UUID, device.UUID)

	ids := map[string]bool{}
	var collect func(c Component)
	collect = func(c Component) {
		for _, d := range c.DataItems {
			assert.False(t, ids[d.ID], "duplicate id %s", d.ID)
			ids[d.ID] = true
		}
		for _, child := range c.Components {
			collect(child)
		}
	}
	collect(device)

	current := BuildCurrent(testInfo, map[string]string{}, testTime)
	seen := map[string]bool{}
	for _, cs := range current.Streams[0].ComponentStreams {
		for _, group := range [][]Observation{cs.Samples, cs.Events, cs.Condition} {
			for _, obs := range group {
				assert.True(t, ids[obs.DataItemID], "unknown id %s", obs.DataItemID)
				seen[obs.DataItemID] = true
			}
		}
	}
	assert.Equal(t, len(ids), len(seen))
}

func TestSampleEqualsCurrent(t *testing.T) {
	fields := map[string]string{decoder.KeyProgramName: "O1"}
	current, err := RenderCurrent(testInfo, fields, testTime)
	require.NoError(t, err)
	sample, err := RenderSample(testInfo, fields, testTime)
	require.NoError(t, err)
	assert.Equal(t, current, sample)
}

func TestNaturalLess(t *testing.T) {
	assert.True(t, naturalLess("P2", "P10"))
	assert.True(t, naturalLess("G54", "G59"))
	assert.True(t, naturalLess("G59", "P1"))
	assert.True(t, naturalLess("2", "10"))
	assert.False(t, naturalLess("10", "2"))
	assert.False(t, naturalLess("R1", "L1"))
}

func TestElementName(t *testing.T) {
	assert.Equal(t, "PathFeedrateOverride", elementName("PATH_FEEDRATE_OVERRIDE"))
	assert.Equal(t, "Availability", elementName("AVAILABILITY"))
}

func TestDeviceUUIDIsStable(t *testing.T) {
	assert.Equal(t, DeviceUUID(), DeviceUUID())
	assert.Len(t, DeviceUUID(), 36)
	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceOID, []byte(stableIdentifier())).String(), DeviceUUID())
}
