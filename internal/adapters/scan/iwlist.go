package scan

import (
	"bufio"
	"strconv"
	"strings"
	"time"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// ParseIWList turns `iwlist <iface> scan` output into canonical records.
// It is a state machine keyed on the per-cell "Cell NN - Address: MAC"
// delimiter: each delimiter flushes the previous cell and starts a new
// one, field markers update the cell in progress, unmatched lines are
// ignored. Malformed cells (no BSSID) are discarded, never emitted with
// a placeholder. The function never fails on malformed input.
func ParseIWList(raw string, capturedAt time.Time) []domain.NetworkRecord {
	var records []domain.NetworkRecord
	var cur *domain.NetworkRecord
	rawEnc := ""

	flush := func() {
		if cur == nil {
			return
		}
		if cur.BSSID != "" {
			cur.Encryption = domain.ClassifyEncryption(rawEnc)
			cur.Quality = domain.QualityTier(cur.SignalDBM)
			records = append(records, *cur)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.Contains(line, "Cell") && strings.Contains(line, "Address:") {
			flush()
			bssid := strings.TrimSpace(line[strings.Index(line, "Address:")+len("Address:"):])
			cur = &domain.NetworkRecord{
				BSSID:      bssid,
				SignalDBM:  -50,
				Mode:       "Master",
				CapturedAt: capturedAt,
				Platform:   domain.PlatformLinux,
			}
			rawEnc = "Open"
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		case strings.Contains(line, "ESSID:"):
			cur.SSID = strings.Trim(strings.TrimSpace(afterMarker(line, "ESSID:")), `"`)
		case strings.Contains(line, "Channel:"):
			field := strings.SplitN(afterMarker(line, "Channel:"), ")", 2)[0]
			if ch, err := strconv.Atoi(strings.TrimSpace(field)); err == nil {
				cur.Channel = ch
			}
		case strings.Contains(line, "Frequency:"):
			cur.Band = bandFromFrequency(firstField(afterMarker(line, "Frequency:")))
		case strings.Contains(line, "Signal level="):
			tok := strings.TrimSuffix(firstField(afterMarker(line, "Signal level=")), "dBm")
			if v, err := strconv.Atoi(tok); err == nil {
				cur.SignalDBM = v
			}
		case strings.Contains(line, "IE: IEEE 802.11i/WPA2"):
			rawEnc = "WPA2"
		case strings.Contains(line, "IE: WPA"):
			rawEnc = "WPA"
		case strings.Contains(line, "Encryption key:on"):
			rawEnc = "WEP/WPA"
		case strings.Contains(line, "Group Cipher"):
			cur.Cipher = afterLastColon(line)
		case strings.Contains(line, "Authentication Suites"):
			cur.Authentication = afterLastColon(line)
		}
	}
	flush()

	return records
}

func afterMarker(line, marker string) string {
	i := strings.Index(line, marker)
	if i < 0 {
		return ""
	}
	return line[i+len(marker):]
}

func afterLastColon(line string) string {
	i := strings.LastIndex(line, ":")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i+1:])
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// bandFromFrequency maps an iwlist frequency value ("2.437", "5.18")
// to the band label used across the engine.
func bandFromFrequency(freq string) string {
	switch {
	case strings.HasPrefix(freq, "2."):
		return "2.4 GHz"
	case strings.HasPrefix(freq, "5"):
		return "5 GHz"
	default:
		return ""
	}
}
