package scan

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// system_profiler SPAirPortDataType -json document layout. Only the
// fields we traverse are declared; everything else is ignored.
type profilerReport struct {
	SPAirPortDataType []struct {
		Interfaces []profilerInterface `json:"spairport_airport_interfaces"`
	} `json:"SPAirPortDataType"`
}

type profilerInterface struct {
	Name     string           `json:"_name"`
	Status   string           `json:"spairport_status"`
	CardType string           `json:"spairport_card_type"`
	Current  *profilerNetwork `json:"spairport_current_network_information"`
}

type profilerNetwork struct {
	Name        string          `json:"spairport_network_name"`
	BSSID       string          `json:"spairport_bssid"`
	Channel     json.RawMessage `json:"spairport_channel"`
	SignalNoise string          `json:"spairport_signal_noise"`
	Security    string          `json:"spairport_security"`
}

var signalPattern = regexp.MustCompile(`signal:\s*(-?\d+)`)

// ParseSystemProfiler extracts the currently associated network of each
// interface from system_profiler JSON. This is not a neighbor scan: at
// most one record per interface is emitted, and callers must tag the
// result as association-only. Undecodable input yields an empty slice.
func ParseSystemProfiler(raw string, capturedAt time.Time) []domain.NetworkRecord {
	var report profilerReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil
	}

	var records []domain.NetworkRecord
	for _, item := range report.SPAirPortDataType {
		for _, iface := range item.Interfaces {
			cur := iface.Current
			if cur == nil || cur.BSSID == "" {
				continue
			}

			signal := parseSignalNoise(cur.SignalNoise)
			records = append(records, domain.NetworkRecord{
				SSID:       cur.Name,
				BSSID:      cur.BSSID,
				Channel:    parseProfilerChannel(cur.Channel),
				SignalDBM:  signal,
				Quality:    domain.QualityTier(signal),
				Encryption: domain.ClassifyEncryption(cur.Security),
				Mode:       "Master",
				CapturedAt: capturedAt,
				Platform:   domain.PlatformMacOS,
			})
		}
	}

	return records
}

// parseSignalNoise extracts the signal from the combined
// "signal: -45 noise: -92" string, defaulting to a moderate -50.
func parseSignalNoise(s string) int {
	if m := signalPattern.FindStringSubmatch(s); len(m) > 1 {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v
		}
	}
	return -50
}

// parseProfilerChannel tolerates both the numeric form and the newer
// "11 (2GHz, 20MHz)" string form system_profiler emits.
func parseProfilerChannel(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if v, err := strconv.Atoi(s[:end]); err == nil {
		return v
	}
	return 0
}
