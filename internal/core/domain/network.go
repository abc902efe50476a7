package domain

import "time"

// Platform identifies the operating system a scan or interface query ran on.
type Platform string

const (
	PlatformLinux Platform = "linux"
	PlatformMacOS Platform = "macos"
)

// DetectPlatform maps a GOOS value to the closed platform enum.
// Anything that is not darwin is treated as Linux, which matches the
// tool set we drive (iwlist/iwconfig vs airport/system_profiler).
func DetectPlatform(goos string) Platform {
	if goos == "darwin" {
		return PlatformMacOS
	}
	return PlatformLinux
}

// ResultKind distinguishes a full neighbor scan from the macOS fallback
// paths that only report the currently associated network. The two are
// deliberately kept apart: assessment conclusions differ in meaning.
type ResultKind string

const (
	ResultFullScan           ResultKind = "full_scan"
	ResultCurrentAssociation ResultKind = "current_association"
)

// NetworkInterface is one wireless device reported by the platform.
// Instances are created fresh on each enumeration and never persisted.
type NetworkInterface struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"` // always "wireless" in this engine
	Status      string   `json:"status"`
	ConnectedAP string   `json:"connected_ap,omitempty"`
	Platform    Platform `json:"platform"`
}

// NetworkRecord is the canonical representation of one observed access point.
// BSSID is the natural key within a scan and is non-empty for every record
// a parser emits. Channel and Band are best effort and default to 0/"".
type NetworkRecord struct {
	SSID           string     `json:"ssid"`
	BSSID          string     `json:"bssid"`
	Channel        int        `json:"channel"`
	Band           string     `json:"band,omitempty"` // "2.4 GHz", "5 GHz"
	SignalDBM      int        `json:"signal_dbm"`
	Quality        string     `json:"quality"`
	Encryption     Encryption `json:"encryption"`
	Cipher         string     `json:"cipher,omitempty"`
	Authentication string     `json:"authentication,omitempty"`
	Mode           string     `json:"mode"` // "Master" for infrastructure APs
	CapturedAt     time.Time  `json:"captured_at"`
	Platform       Platform   `json:"platform"`
}

// ScanSession is the immutable result of one orchestrated scan.
// Records keep discovery order and are not deduplicated across cells
// that share a BSSID.
type ScanSession struct {
	ID          string          `json:"id"`
	Interface   string          `json:"interface"`
	StartedAt   time.Time       `json:"timestamp"`
	Kind        ResultKind      `json:"result_kind"`
	RecordCount int             `json:"network_count"`
	Records     []NetworkRecord `json:"networks"`
}

// SessionSummary is what Recent() returns: enough to inspect history
// without deserializing the network list.
type SessionSummary struct {
	ID          string     `json:"id"`
	Interface   string     `json:"interface"`
	StartedAt   time.Time  `json:"timestamp"`
	Kind        ResultKind `json:"result_kind"`
	RecordCount int        `json:"network_count"`
	Filename    string     `json:"filename,omitempty"`
}

// HistoryFilter selects flattened network records from the history index.
// Zero values mean "no constraint".
type HistoryFilter struct {
	Encryption Encryption
	MinRSSI    int
	SSID       string
	Interface  string
	SeenAfter  time.Time
	SeenBefore time.Time
	Limit      int
}
