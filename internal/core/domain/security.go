package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Encryption is the canonical security category of an access point.
type Encryption string

const (
	EncryptionOpen    Encryption = "Open"
	EncryptionWEP     Encryption = "WEP"
	EncryptionWPA     Encryption = "WPA"
	EncryptionWPA2    Encryption = "WPA2"
	EncryptionWPA3    Encryption = "WPA3"
	EncryptionUnknown Encryption = "Unknown"
)

// ClassifyEncryption normalizes a raw platform security label into a
// canonical category. Raw labels are never exclusive strings ("WPA2(PSK)"
// also contains "WPA"), so the most specific marker is checked first.
// The check order is load-bearing; do not reorder.
func ClassifyEncryption(raw string) Encryption {
	label := strings.ToUpper(raw)
	switch {
	case strings.Contains(label, "WPA3"):
		return EncryptionWPA3
	case strings.Contains(label, "WPA2"):
		return EncryptionWPA2
	case strings.Contains(label, "WPA"):
		return EncryptionWPA
	case strings.Contains(label, "WEP"):
		return EncryptionWEP
	case strings.Contains(label, "NONE"), strings.Contains(label, "OPEN"):
		return EncryptionOpen
	default:
		return EncryptionUnknown
	}
}

// SecurityLevel is the ordinal posture rating produced by the assessment
// engine. Higher is better.
type SecurityLevel int

const (
	LevelVeryLow SecurityLevel = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelVeryHigh
)

func (l SecurityLevel) String() string {
	switch l {
	case LevelVeryLow:
		return "Very Low"
	case LevelLow:
		return "Low"
	case LevelMedium:
		return "Medium"
	case LevelHigh:
		return "High"
	case LevelVeryHigh:
		return "Very High"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the level as its human-readable label.
func (l SecurityLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON accepts the labels produced by MarshalJSON.
func (l *SecurityLevel) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "Very Low":
		*l = LevelVeryLow
	case "Low":
		*l = LevelLow
	case "Medium":
		*l = LevelMedium
	case "High":
		*l = LevelHigh
	case "Very High":
		*l = LevelVeryHigh
	default:
		return fmt.Errorf("unknown security level %q", label)
	}
	return nil
}

// SecurityAssessment is a derived, non-persisted view over one
// NetworkRecord. It is a pure function of the record: assessing the
// same record twice yields identical output.
type SecurityAssessment struct {
	BSSID           string        `json:"bssid"`
	SSID            string        `json:"ssid"`
	Encryption      Encryption    `json:"encryption"`
	Level           SecurityLevel `json:"security_level"`
	AttackVectors   []string      `json:"attack_vectors"`
	Recommendations []string      `json:"recommendations"`
	SignalCategory  string        `json:"signal_strength"`
}
