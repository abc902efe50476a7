package domain

import "errors"

// Failure taxonomy for the discovery engine. Every one of these degrades
// to "fewer or zero results" at the orchestrator boundary; none is fatal.
var (
	// ErrNoInterface means enumeration found no wireless device.
	ErrNoInterface = errors.New("no wireless interface found")

	// ErrScanTool means the external scan tool is missing or exited non-zero.
	ErrScanTool = errors.New("scan tool failed")

	// ErrScanTimeout means the bounded wait for an external tool expired.
	ErrScanTimeout = errors.New("scan timed out")

	// ErrPersistence means a session could not be written; the in-memory
	// result remains valid.
	ErrPersistence = errors.New("failed to persist scan session")

	// ErrNetworkNotFound means no record with the requested BSSID exists
	// in the supplied scan results.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrSessionNotFound means no stored session matches the requested ID.
	ErrSessionNotFound = errors.New("scan session not found")
)
