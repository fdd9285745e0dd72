package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BookingMetrics holds the instruments recorded by the booking service.
// Instruments are registered against the global meter provider, so they
// surface on /metrics through the Prometheus reader and (when configured)
// flow to the OTLP endpoint.
type BookingMetrics struct {
	confirmed      metric.Int64Counter
	cancelled      metric.Int64Counter
	capacityShort  metric.Int64Counter
	commitDuration metric.Float64Histogram
}

// NewBookingMetrics registers booking instruments on the global meter.
func NewBookingMetrics() (*BookingMetrics, error) {
	meter := otel.Meter("wayfare/booking")

	confirmed, err := meter.Int64Counter("bookings_confirmed_total",
		metric.WithDescription("Bookings confirmed"))
	if err != nil {
		return nil, fmt.Errorf("metrics: confirmed counter: %w", err)
	}
	cancelled, err := meter.Int64Counter("bookings_cancelled_total",
		metric.WithDescription("Bookings cancelled"))
	if err != nil {
		return nil, fmt.Errorf("metrics: cancelled counter: %w", err)
	}
	capacityShort, err := meter.Int64Counter("bookings_capacity_conflicts_total",
		metric.WithDescription("Booking attempts rejected for insufficient capacity"))
	if err != nil {
		return nil, fmt.Errorf("metrics: capacity counter: %w", err)
	}
	commitDuration, err := meter.Float64Histogram("booking_commit_duration_seconds",
		metric.WithDescription("Time to commit a booking"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("metrics: commit histogram: %w", err)
	}

	return &BookingMetrics{
		confirmed:      confirmed,
		cancelled:      cancelled,
		capacityShort:  capacityShort,
		commitDuration: commitDuration,
	}, nil
}

// RecordConfirmed increments the confirmed counter for the item kind.
func (m *BookingMetrics) RecordConfirmed(ctx context.Context, kind string) {
	m.confirmed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordCancelled increments the cancelled counter for the item kind.
func (m *BookingMetrics) RecordCancelled(ctx context.Context, kind string) {
	m.cancelled.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordCapacityConflict increments the conflict counter for the item kind.
func (m *BookingMetrics) RecordCapacityConflict(ctx context.Context, kind string) {
	m.capacityShort.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordCommitDuration records how long a booking commit took.
func (m *BookingMetrics) RecordCommitDuration(ctx context.Context, seconds float64) {
	m.commitDuration.Record(ctx, seconds)
}
