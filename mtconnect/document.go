package mtconnect

import "encoding/xml"

// Пространства имен и схемы MTConnect 1.7. Probe и current всегда используют одну и ту же версию.
const (
	SchemaVersion    = "1.7"
	HeaderVersion    = "1.7.0.0"
	DevicesNamespace = "urn:mtconnect.org:MTConnectDevices:" + SchemaVersion
	StreamsNamespace = "urn:mtconnect.org:MTConnectStreams:" + SchemaVersion
	DevicesSchema    = "http://schemas.mtconnect.org/schemas/MTConnectDevices_" + SchemaVersion + ".xsd"
	StreamsSchema    = "http://schemas.mtconnect.org/schemas/MTConnectStreams_" + SchemaVersion + ".xsd"
	XSINamespace     = "http://www.w3.org/2001/XMLSchema-instance"

	BufferSize      = 131072
	AssetBufferSize = 1024
	TimestampFormat = "2006-01-02T15:04:05.000000Z"
)

type Header struct {
	CreationTime    string `xml:"creationTime,attr"`
	Sender          string `xml:"sender,attr"`
	InstanceID      int64  `xml:"instanceId,attr"`
	Version         string `xml:"version,attr"`
	BufferSize      int    `xml:"bufferSize,attr"`
	AssetBufferSize int    `xml:"assetBufferSize,attr,omitempty"`
	AssetCount      *int   `xml:"assetCount,attr,omitempty"`
	NextSequence    uint64 `xml:"nextSequence,attr,omitempty"`
	FirstSequence   uint64 `xml:"firstSequence,attr,omitempty"`
	LastSequence    uint64 `xml:"lastSequence,attr,omitempty"`
}

// DevicesDocument - ответ /probe.
type DevicesDocument struct {
	XMLName        xml.Name    `xml:"MTConnectDevices"`
	Xmlns          string      `xml:"xmlns,attr"`
	XmlnsXSI       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	Header         Header      `xml:"Header"`
	Devices        []Component `xml:"Devices>Device"`
}

// Component - элемент дерева устройства. Имя элемента задается через XMLName.
type Component struct {
	XMLName     xml.Name
	ID          string       `xml:"id,attr"`
	Name        string       `xml:"name,attr,omitempty"`
	UUID        string       `xml:"uuid,attr,omitempty"`
	Description *Description `xml:"Description,omitempty"`
	DataItems   []DataItem   `xml:"DataItems>DataItem"`
	Components  []Component  `xml:"Components>Component"`
}

type Description struct {
	Manufacturer string `xml:"manufacturer,attr,omitempty"`
	Model        string `xml:"model,attr,omitempty"`
	SerialNumber string `xml:"serialNumber,attr,omitempty"`
	Text         string `xml:",chardata"`
}

type DataItem struct {
	Category       string `xml:"category,attr"`
	ID             string `xml:"id,attr"`
	Name           string `xml:"name,attr,omitempty"`
	Type           string `xml:"type,attr"`
	SubType        string `xml:"subType,attr,omitempty"`
	Units          string `xml:"units,attr,omitempty"`
	NativeUnits    string `xml:"nativeUnits,attr,omitempty"`
	Representation string `xml:"representation,attr,omitempty"`
}

// StreamsDocument - ответ /current и /sample.
type StreamsDocument struct {
	XMLName        xml.Name       `xml:"MTConnectStreams"`
	Xmlns          string         `xml:"xmlns,attr"`
	XmlnsXSI       string         `xml:"xmlns:xsi,attr"`
	SchemaLocation string         `xml:"xsi:schemaLocation,attr"`
	Header         Header         `xml:"Header"`
	Streams        []DeviceStream `xml:"Streams>DeviceStream"`
}

type DeviceStream struct {
	Name             string            `xml:"name,attr"`
	UUID             string            `xml:"uuid,attr"`
	ComponentStreams []ComponentStream `xml:"ComponentStream"`
}

type ComponentStream struct {
	Component   string        `xml:"component,attr"`
	Name        string        `xml:"name,attr,omitempty"`
	ComponentID string        `xml:"componentId,attr"`
	Samples     []Observation `xml:"Samples>Sample"`
	Events      []Observation `xml:"Events>Event"`
	Condition   []Observation `xml:"Condition>Condition"`
}

// Observation - значение DataItem. Имя элемента (Position, Execution, Fault...) задается через XMLName.
type Observation struct {
	XMLName    xml.Name
	DataItemID string  `xml:"dataItemId,attr"`
	Timestamp  string  `xml:"timestamp,attr"`
	Name       string  `xml:"name,attr,omitempty"`
	Sequence   uint64  `xml:"sequence,attr"`
	Type       string  `xml:"type,attr,omitempty"`
	SubType    string  `xml:"subType,attr,omitempty"`
	NativeCode string  `xml:"nativeCode,attr,omitempty"`
	Count      *int    `xml:"count,attr,omitempty"`
	Value      string  `xml:",chardata"`
	Entries    []Entry `xml:"Entry"`
}

type Entry struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
	Cells []Cell `xml:"Cell"`
}

type Cell struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}
