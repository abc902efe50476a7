package scan

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tmoreau-sec/wifiscout/internal/core/domain"
	"github.com/tmoreau-sec/wifiscout/internal/core/ports"
	"github.com/tmoreau-sec/wifiscout/internal/telemetry"
)

// strategy is one entry in the ordered fallback chain. Strategies may
// return partial records alongside an error (e.g. a timeout with usable
// output); the orchestrator keeps whatever was salvaged.
type strategy struct {
	name string
	kind domain.ResultKind
	run  func(ctx context.Context, iface string) ([]domain.NetworkRecord, error)
}

// Orchestrator drives one scan: resolve an interface, walk the platform
// strategy chain until a strategy yields records, persist the session
// and hand it back. Every failure mode degrades to fewer or zero
// results; Scan never returns an error the caller must handle.
type Orchestrator struct {
	platform     domain.Platform
	runner       Runner
	enum         ports.Enumerator
	sessions     ports.SessionStore
	history      ports.HistoryStore
	events       ports.ScanEvents
	tools        ToolPaths
	defaultIface string
	scanTimeout  time.Duration
	probeTimeout time.Duration
	tracer       trace.Tracer
	strategies   []strategy
}

func NewOrchestrator(
	platform domain.Platform,
	runner Runner,
	enum ports.Enumerator,
	sessions ports.SessionStore,
	history ports.HistoryStore,
	tools ToolPaths,
	scanTimeout time.Duration,
) *Orchestrator {
	if scanTimeout <= 0 {
		scanTimeout = 30 * time.Second
	}
	o := &Orchestrator{
		platform:     platform,
		runner:       runner,
		enum:         enum,
		sessions:     sessions,
		history:      history,
		tools:        tools,
		scanTimeout:  scanTimeout,
		probeTimeout: 15 * time.Second,
		tracer:       otel.Tracer("wifiscout/scan"),
	}

	// The chain is fixed once at construction; the platform is not
	// re-detected per call.
	if platform == domain.PlatformMacOS {
		o.strategies = []strategy{
			{"airport", domain.ResultFullScan, o.runAirport},
			{"system_profiler", domain.ResultCurrentAssociation, o.runProfiler},
			{"networksetup", domain.ResultCurrentAssociation, o.runNetworksetup},
		}
	} else {
		o.strategies = []strategy{
			{"iwlist", domain.ResultFullScan, o.runIWList},
		}
	}
	return o
}

// SetEvents wires an optional scan lifecycle listener.
func (o *Orchestrator) SetEvents(events ports.ScanEvents) {
	o.events = events
}

// SetDefaultInterface sets the interface used when a scan request does
// not name one. Enumeration still applies when both are empty.
func (o *Orchestrator) SetDefaultInterface(iface string) {
	o.defaultIface = iface
}

// Scan performs one orchestrated scan on the given interface, or on the
// first enumerated interface when iface is empty. The returned session
// is always usable; persistence failures are logged, not propagated.
func (o *Orchestrator) Scan(ctx context.Context, iface string) (*domain.ScanSession, error) {
	ctx, span := o.tracer.Start(ctx, "scan",
		trace.WithAttributes(attribute.String("platform", string(o.platform))))
	defer span.End()

	if iface == "" {
		iface = o.defaultIface
	}

	start := time.Now()
	session := &domain.ScanSession{
		ID:        uuid.New().String(),
		Interface: iface,
		StartedAt: start,
		Kind:      domain.ResultFullScan,
		Records:   []domain.NetworkRecord{},
	}

	if iface == "" {
		interfaces := o.enum.ListInterfaces(ctx)
		if len(interfaces) == 0 {
			slog.Error("scan aborted", "error", domain.ErrNoInterface)
			telemetry.ScansTotal.WithLabelValues(string(o.platform), "none", "no_interface").Inc()
			if o.events != nil {
				o.events.ScanFailed("", domain.ErrNoInterface.Error())
			}
			return session, nil
		}
		iface = interfaces[0].Name
		session.Interface = iface
	}

	slog.Info("scanning networks", "interface", iface, "platform", o.platform)
	if o.events != nil {
		o.events.ScanStarted(iface)
	}

	for _, strat := range o.strategies {
		records, err := o.runStrategy(ctx, strat, iface)
		if err != nil {
			slog.Warn("scan strategy failed",
				"strategy", strat.name, "interface", iface, "error", err)
		}
		telemetry.ScansTotal.WithLabelValues(string(o.platform), strat.name, outcomeLabel(err, len(records))).Inc()
		if len(records) == 0 {
			continue
		}

		session.Records = records
		session.RecordCount = len(records)
		session.Kind = strat.kind
		break
	}

	telemetry.ScanDuration.Observe(time.Since(start).Seconds())

	if session.RecordCount == 0 {
		slog.Warn("no networks found", "interface", iface)
		if o.events != nil {
			o.events.ScanFailed(iface, "no networks found")
		}
		return session, nil
	}

	slog.Info("scan complete",
		"interface", iface, "networks", session.RecordCount, "kind", session.Kind)
	o.persist(session)
	if o.events != nil {
		o.events.ScanCompleted(session)
	}
	return session, nil
}

func (o *Orchestrator) runStrategy(ctx context.Context, strat strategy, iface string) ([]domain.NetworkRecord, error) {
	ctx, span := o.tracer.Start(ctx, "scan.strategy",
		trace.WithAttributes(attribute.String("strategy", strat.name)))
	defer span.End()

	records, err := strat.run(ctx, iface)
	telemetry.RecordsParsed.WithLabelValues(strat.name).Add(float64(len(records)))
	return records, err
}

// persist hands the session to both stores. A scan that cannot be
// persisted must still be usable by the caller, so errors stop here.
func (o *Orchestrator) persist(session *domain.ScanSession) {
	if o.sessions != nil {
		if err := o.sessions.Save(session); err != nil {
			slog.Error("session not persisted", "id", session.ID, "error", err)
			telemetry.PersistenceErrors.WithLabelValues("file").Inc()
		} else {
			telemetry.SessionsPersisted.WithLabelValues("file").Inc()
		}
	}
	if o.history != nil {
		if err := o.history.IndexSession(session); err != nil {
			slog.Error("session not indexed", "id", session.ID, "error", err)
			telemetry.PersistenceErrors.WithLabelValues("sqlite").Inc()
		} else {
			telemetry.SessionsPersisted.WithLabelValues("sqlite").Inc()
		}
	}
}

func (o *Orchestrator) runIWList(ctx context.Context, iface string) ([]domain.NetworkRecord, error) {
	out, err := o.runner.Run(ctx, Command{
		Name:    o.tools.Iwlist,
		Args:    []string{iface, "scan"},
		Timeout: o.scanTimeout,
	})
	// A timeout may still leave parseable cells in the partial output.
	records := ParseIWList(out, time.Now())
	if err != nil && !errors.Is(err, domain.ErrScanTimeout) {
		return nil, err
	}
	return records, err
}

func (o *Orchestrator) runAirport(ctx context.Context, iface string) ([]domain.NetworkRecord, error) {
	out, err := o.runner.Run(ctx, Command{
		Name:    o.tools.Airport,
		Args:    []string{"-s"},
		Timeout: o.scanTimeout,
	})
	records := ParseAirport(out, time.Now())
	if err != nil && !errors.Is(err, domain.ErrScanTimeout) {
		return nil, err
	}
	return records, err
}

func (o *Orchestrator) runProfiler(ctx context.Context, iface string) ([]domain.NetworkRecord, error) {
	out, err := o.runner.Run(ctx, Command{
		Name:    o.tools.SystemProfiler,
		Args:    []string{"SPAirPortDataType", "-json"},
		Timeout: o.scanTimeout,
	})
	if err != nil {
		return nil, err
	}
	return ParseSystemProfiler(out, time.Now()), nil
}

// runNetworksetup is the last-resort macOS probe: it only knows the name
// of the currently joined network, so the record carries sentinel values
// for everything the tool cannot report.
func (o *Orchestrator) runNetworksetup(ctx context.Context, iface string) ([]domain.NetworkRecord, error) {
	out, err := o.runner.Run(ctx, Command{
		Name:    o.tools.Networksetup,
		Args:    []string{"-getairportnetwork", iface},
		Timeout: o.probeTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !strings.Contains(out, "Current Wi-Fi Network:") {
		return nil, nil
	}
	ssid := strings.TrimSpace(afterMarker(out, "Current Wi-Fi Network:"))
	if ssid == "" || strings.Contains(ssid, "not associated") {
		return nil, nil
	}

	return []domain.NetworkRecord{{
		SSID:       ssid,
		BSSID:      "unknown",
		SignalDBM:  -50,
		Quality:    domain.QualityTier(-50),
		Encryption: domain.EncryptionUnknown,
		Mode:       "Master",
		CapturedAt: time.Now(),
		Platform:   domain.PlatformMacOS,
	}}, nil
}

func outcomeLabel(err error, records int) string {
	switch {
	case errors.Is(err, domain.ErrScanTimeout):
		return "timeout"
	case err != nil:
		return "tool_error"
	case records == 0:
		return "empty"
	default:
		return "ok"
	}
}
