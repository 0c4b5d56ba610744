package mtconnect

import (
	"net"
	"os"

	"github.com/google/uuid"
)

// DeviceUUID возвращает UUID устройства, стабильный между перезапусками.
// Основа - MAC первого не-loopback интерфейса, при его отсутствии имя хоста.
func DeviceUUID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(stableIdentifier())).String()
}

func stableIdentifier() string {
	if mac := firstHardwareAddr(); mac != "" {
		return mac
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "brother-adapter"
}

func firstHardwareAddr() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String()
	}
	return ""
}
