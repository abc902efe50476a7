package assessment

import (
	"math"
	"strings"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// profile is the static posture verdict for one encryption category.
type profile struct {
	level           domain.SecurityLevel
	attackVectors   []string
	recommendations []string
}

var profiles = map[domain.Encryption]profile{
	domain.EncryptionOpen: {
		level: domain.LevelVeryLow,
		attackVectors: []string{
			"Traffic interception",
			"Man-in-the-middle attacks",
			"Evil twin access point",
		},
		recommendations: []string{
			"Enable WPA2 or WPA3 encryption",
			"Avoid transmitting sensitive data on this network",
		},
	},
	domain.EncryptionWEP: {
		level: domain.LevelLow,
		attackVectors: []string{
			"WEP key cracking within minutes",
			"ARP request replay",
			"ChopChop packet decryption",
		},
		recommendations: []string{
			"Upgrade to WPA2 or WPA3 immediately",
			"Treat this network as effectively open",
		},
	},
	domain.EncryptionWPA: {
		level: domain.LevelMedium,
		attackVectors: []string{
			"Handshake capture and dictionary attack",
			"PMKID attack",
			"TKIP protocol weaknesses",
		},
		recommendations: []string{
			"Upgrade to WPA2 or WPA3",
			"Use a long random passphrase",
		},
	},
	domain.EncryptionWPA2: {
		level: domain.LevelHigh,
		attackVectors: []string{
			"WPS PIN attack (if WPS enabled)",
			"PMKID attack",
			"Offline brute force of weak passphrases",
		},
		recommendations: []string{
			"Disable WPS",
			"Use strong unique passwords",
			"Consider upgrading to WPA3",
		},
	},
	domain.EncryptionWPA3: {
		level: domain.LevelVeryHigh,
		attackVectors: []string{
			"Advanced cryptographic attacks (theoretical)",
		},
		recommendations: []string{
			"Keep access point firmware updated",
		},
	},
}

// unknownProfile applies when the security label could not be classified.
// The verdict stays in the middle: neither alarming nor reassuring.
var unknownProfile = profile{
	level: domain.LevelMedium,
	attackVectors: []string{
		"Unverified security configuration",
	},
	recommendations: []string{
		"Verify the access point security mode manually",
	},
}

// Engine rates the security posture of observed networks. It is
// stateless: every assessment is a pure function of the input record.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Assess produces the posture verdict for a single network record.
func (e *Engine) Assess(rec domain.NetworkRecord) domain.SecurityAssessment {
	p, ok := profiles[rec.Encryption]
	if !ok {
		p = unknownProfile
	}
	return domain.SecurityAssessment{
		BSSID:           rec.BSSID,
		SSID:            rec.SSID,
		Encryption:      rec.Encryption,
		Level:           p.level,
		AttackVectors:   append([]string(nil), p.attackVectors...),
		Recommendations: append([]string(nil), p.recommendations...),
		SignalCategory:  domain.SignalCategory(rec.SignalDBM),
	}
}

// AnalyzeNetwork looks up a record by BSSID (case-insensitive, platforms
// disagree on hex case) and assesses it. Returns domain.ErrNetworkNotFound
// when no record matches.
func (e *Engine) AnalyzeNetwork(bssid string, records []domain.NetworkRecord) (domain.SecurityAssessment, error) {
	for _, rec := range records {
		if strings.EqualFold(rec.BSSID, bssid) {
			return e.Assess(rec), nil
		}
	}
	return domain.SecurityAssessment{}, domain.ErrNetworkNotFound
}

// exposureByLevel maps the posture level to a 0-10 per-network exposure
// score. Lower posture means higher exposure.
var exposureByLevel = map[domain.SecurityLevel]float64{
	domain.LevelVeryLow:  9.5,
	domain.LevelLow:      8.0,
	domain.LevelMedium:   5.5,
	domain.LevelHigh:     3.0,
	domain.LevelVeryHigh: 1.0,
}

// SessionRisk aggregates per-network exposure into one 0-10 score for a
// whole scan, plus a human-readable level. An empty record set scores 0.
func (e *Engine) SessionRisk(records []domain.NetworkRecord) (float64, string) {
	if len(records) == 0 {
		return 0.0, "Low"
	}

	var total float64
	weak := 0
	for _, rec := range records {
		assessment := e.Assess(rec)
		total += exposureByLevel[assessment.Level]
		if assessment.Level <= domain.LevelLow {
			weak++
		}
	}
	avg := total / float64(len(records))

	// Environments dense with open/WEP networks are riskier than the
	// average alone suggests; caps at 1.5x when half the set is weak.
	weakFactor := 1.0 + math.Min(float64(weak)/float64(len(records)), 0.5)

	score := math.Min(avg*weakFactor, 10.0)
	return score, riskLevel(score)
}

func riskLevel(score float64) string {
	switch {
	case score >= 8.0:
		return "Critical"
	case score >= 6.0:
		return "High"
	case score >= 4.0:
		return "Medium"
	default:
		return "Low"
	}
}
