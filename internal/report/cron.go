package report

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
	"budgeteer/internal/log"
	"budgeteer/internal/notifier"
)

// Source supplies the data a report builds from.
type Source interface {
	Transactions() []core.Transaction
	Settings() core.Settings
}

// Reporter runs the report jobs on cron schedules and emits the summaries as
// notifications.
type Reporter struct {
	cron   *cron.Cron
	source Source
	sink   notifier.Sink
	logger *log.Logger
	now    func() time.Time
}

func NewReporter(source Source, sink notifier.Sink, logger *log.Logger) *Reporter {
	return &Reporter{
		cron:   cron.New(),
		source: source,
		sink:   sink,
		logger: logger.WithComponent(log.ComponentReport),
		now:    time.Now,
	}
}

// RegisterAll registers the daily, weekly and monthly jobs. Schedules use
// standard five-field cron expressions.
func (r *Reporter) RegisterAll(ctx context.Context, dailyCron, weeklyCron, monthlyCron string) error {
	jobs := []struct {
		spec string
		span Span
	}{
		{dailyCron, SpanDaily},
		{weeklyCron, SpanWeekly},
		{monthlyCron, SpanMonthly},
	}
	for _, job := range jobs {
		span := job.span
		if _, err := r.cron.AddFunc(job.spec, func() { r.Run(ctx, span) }); err != nil {
			return fmt.Errorf("register %s report: %w", span, err)
		}
	}
	return nil
}

func (r *Reporter) Start() {
	r.cron.Start()
	r.logger.Info("reporter started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (r *Reporter) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("reporter stopped")
}

// Run builds and emits one report immediately.
func (r *Reporter) Run(ctx context.Context, span Span) {
	settings := r.source.Settings()
	rep := Build(span, ledger.New(r.source.Transactions()), settings, r.now())

	if _, err := r.sink.Emit(ctx, rep.Title(), rep.Format(settings.Currency)); err != nil {
		r.logger.ErrorContext(ctx, "report notification failed",
			log.FieldSpan, span, log.FieldError, err)
		return
	}
	r.logger.InfoContext(ctx, "report emitted", log.FieldSpan, span)
}
