package otel

import (
	"context"
	"errors"
	"fmt"

	grcAuth "github.com/MrEthical07/grcAuth"
	"github.com/MrEthical07/grcAuth/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilMeter is an exported constant or variable used by the authentication engine.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is an exported constant or variable used by the authentication engine.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() grcAuth.MetricsSnapshot
	AuditDropped() uint64
}

type observedCounter struct {
	id         grcAuth.MetricID
	instrument metric.Int64ObservableCounter
}

// OTelExporter defines a public type used by grcAuth APIs.
//
// OTelExporter instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter describes the newotelexporter operation and its observable behavior.
//
// NewOTelExporter may return an error when input validation, dependency calls, or security checks fail.
// NewOTelExporter does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewOTelExporter(meter metric.Meter, engine *grcAuth.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource describes the newotelexporterfromsource operation and its observable behavior.
//
// NewOTelExporterFromSource may return an error when input validation, dependency calls, or security checks fail.
// NewOTelExporterFromSource does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:   source,
		counters: make([]observedCounter, 0, len(internaldefs.CounterDefs)),
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+1)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	auditDropped, err := meter.Int64ObservableCounter(
		"grcauth_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	exporter.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		observer.ObserveInt64(exporter.auditDropped, int64(exporter.source.AuditDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
