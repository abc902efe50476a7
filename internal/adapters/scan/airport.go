package scan

import (
	"strconv"
	"strings"
	"time"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// ParseAirport turns `airport -s` columnar output into canonical records.
// The header line is skipped; each remaining line is whitespace-tokenized
// into SSID, BSSID, RSSI, channel+band ("6(2.4)"), country code and a
// free-text security tail. Lines that cannot yield six tokens, or whose
// BSSID token is not a colon-separated MAC, are skipped without aborting
// the scan.
func ParseAirport(raw string, capturedAt time.Time) []domain.NetworkRecord {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return nil
	}

	var records []domain.NetworkRecord
	for _, line := range lines[1:] {
		parts := strings.Fields(line)
		if len(parts) < 6 {
			continue
		}

		ssid := parts[0]
		bssid := parts[1]
		if strings.Count(bssid, ":") != 5 {
			continue
		}

		rssi := -50
		if v, err := strconv.Atoi(parts[2]); err == nil {
			rssi = v
		}

		channelInfo := parts[3]
		channel := 0
		if i := strings.Index(channelInfo, "("); i > 0 {
			if v, err := strconv.Atoi(channelInfo[:i]); err == nil {
				channel = v
			}
		} else if v, err := strconv.Atoi(channelInfo); err == nil {
			channel = v
		}

		band := ""
		if strings.Contains(channelInfo, "2.4") {
			band = "2.4 GHz"
		} else if strings.Contains(channelInfo, "5") {
			band = "5 GHz"
		}

		security := strings.Join(parts[5:], " ")

		records = append(records, domain.NetworkRecord{
			SSID:       ssid,
			BSSID:      bssid,
			Channel:    channel,
			Band:       band,
			SignalDBM:  rssi,
			Quality:    domain.QualityTier(rssi),
			Encryption: domain.ClassifyEncryption(security),
			Mode:       "Master",
			CapturedAt: capturedAt,
			Platform:   domain.PlatformMacOS,
		})
	}

	return records
}
