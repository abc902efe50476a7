package scan

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
)

// macOS machines without a usable system_profiler still usually expose
// the wireless card under one of these device names.
var commonMacInterfaces = []string{"en0", "en1", "en2"}

// SystemEnumerator discovers wireless interfaces via platform tools.
// A missing tool is a valid, reportable state: the result is simply an
// empty slice, never an error surfaced to the caller.
type SystemEnumerator struct {
	platform     domain.Platform
	runner       Runner
	tools        ToolPaths
	probeTimeout time.Duration
}

func NewEnumerator(platform domain.Platform, runner Runner, tools ToolPaths, probeTimeout time.Duration) *SystemEnumerator {
	if probeTimeout <= 0 {
		probeTimeout = 10 * time.Second
	}
	return &SystemEnumerator{
		platform:     platform,
		runner:       runner,
		tools:        tools,
		probeTimeout: probeTimeout,
	}
}

func (e *SystemEnumerator) ListInterfaces(ctx context.Context) []domain.NetworkInterface {
	if e.platform == domain.PlatformMacOS {
		return e.listMacOS(ctx)
	}
	return e.listLinux(ctx)
}

// listLinux walks iwconfig output. A line containing the 802.11 driver
// marker starts a new device block; following lines contribute
// associated-AP metadata until the next block or end of input.
func (e *SystemEnumerator) listLinux(ctx context.Context) []domain.NetworkInterface {
	out, err := e.runner.Run(ctx, Command{Name: e.tools.Iwconfig, Timeout: e.probeTimeout})
	if err != nil {
		slog.Debug("iwconfig unavailable", "error", err)
		return nil
	}

	var interfaces []domain.NetworkInterface
	var cur *domain.NetworkInterface

	flush := func() {
		if cur != nil {
			interfaces = append(interfaces, *cur)
			cur = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "IEEE 802.11") {
			flush()
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			cur = &domain.NetworkInterface{
				Name:     fields[0],
				Kind:     "wireless",
				Status:   "unknown",
				Platform: domain.PlatformLinux,
			}
			continue
		}
		if cur != nil && strings.Contains(line, "Access Point:") {
			cur.ConnectedAP = strings.TrimSpace(afterMarker(line, "Access Point:"))
			if cur.ConnectedAP != "" && !strings.HasPrefix(cur.ConnectedAP, "Not-Associated") {
				cur.Status = "associated"
			}
		}
	}
	flush()

	return interfaces
}

// listMacOS prefers the structured system_profiler query, which returns
// the interface list plus per-interface status directly. If that yields
// nothing it falls back to probing common device names with ifconfig,
// keeping only those reporting an active association.
func (e *SystemEnumerator) listMacOS(ctx context.Context) []domain.NetworkInterface {
	out, err := e.runner.Run(ctx, Command{
		Name:    e.tools.SystemProfiler,
		Args:    []string{"SPAirPortDataType", "-json"},
		Timeout: e.probeTimeout,
	})
	if err != nil {
		slog.Debug("system_profiler unavailable", "error", err)
	}

	var interfaces []domain.NetworkInterface
	if out != "" {
		var report profilerReport
		if err := json.Unmarshal([]byte(out), &report); err == nil {
			for _, item := range report.SPAirPortDataType {
				for _, iface := range item.Interfaces {
					if iface.Name == "" {
						continue
					}
					status := iface.Status
					if status == "" {
						status = "unknown"
					}
					interfaces = append(interfaces, domain.NetworkInterface{
						Name:     iface.Name,
						Kind:     "wireless",
						Status:   status,
						Platform: domain.PlatformMacOS,
					})
				}
			}
		}
	}
	if len(interfaces) > 0 {
		return interfaces
	}

	for _, name := range commonMacInterfaces {
		out, err := e.runner.Run(ctx, Command{
			Name:    e.tools.Ifconfig,
			Args:    []string{name},
			Timeout: 5 * time.Second,
		})
		if err != nil || !strings.Contains(out, "status: active") {
			continue
		}
		interfaces = append(interfaces, domain.NetworkInterface{
			Name:     name,
			Kind:     "wireless",
			Status:   "active",
			Platform: domain.PlatformMacOS,
		})
	}

	return interfaces
}
