package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder implements port.Metrics with OpenTelemetry counters, exported
// through the Prometheus reader installed by observability.InitMetrics.
type Recorder struct {
	loansCreated     metric.Int64Counter
	loanAmount       metric.Float64Counter
	payments         metric.Int64Counter
	installmentsPaid metric.Int64Counter
}

func NewRecorder(meter metric.Meter) (*Recorder, error) {
	loansCreated, err := meter.Int64Counter("credit_loans_created",
		metric.WithDescription("Loans booked."))
	if err != nil {
		return nil, fmt.Errorf("loans created counter: %w", err)
	}
	loanAmount, err := meter.Float64Counter("credit_loan_amount",
		metric.WithDescription("Total repayable amount of booked loans."))
	if err != nil {
		return nil, fmt.Errorf("loan amount counter: %w", err)
	}
	payments, err := meter.Int64Counter("credit_payments",
		metric.WithDescription("Payments that settled at least one installment."))
	if err != nil {
		return nil, fmt.Errorf("payments counter: %w", err)
	}
	installmentsPaid, err := meter.Int64Counter("credit_installments_paid",
		metric.WithDescription("Installments settled by payments."))
	if err != nil {
		return nil, fmt.Errorf("installments paid counter: %w", err)
	}
	return &Recorder{
		loansCreated:     loansCreated,
		loanAmount:       loanAmount,
		payments:         payments,
		installmentsPaid: installmentsPaid,
	}, nil
}

func (r *Recorder) LoanCreated(ctx context.Context, loanAmount float64, installments int) {
	attrs := metric.WithAttributes(attribute.Int("installments", installments))
	r.loansCreated.Add(ctx, 1, attrs)
	r.loanAmount.Add(ctx, loanAmount, attrs)
}

func (r *Recorder) PaymentApplied(ctx context.Context, installmentsPaid int, loanPaid bool) {
	r.payments.Add(ctx, 1, metric.WithAttributes(attribute.Bool("loan_paid", loanPaid)))
	r.installmentsPaid.Add(ctx, int64(installmentsPaid))
}
