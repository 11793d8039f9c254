// File: internal/jobs/rule_refresh.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dentalscope_backend/internal/config"
	"dentalscope_backend/internal/rule"
)

// RuleRefreshJob periodically reloads the rule catalog cache from the store.
type RuleRefreshJob struct {
	ruleService   rule.Service
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewRuleRefreshJob creates a new RuleRefreshJob.
func NewRuleRefreshJob(
	ruleService rule.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *RuleRefreshJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &RuleRefreshJob{
		ruleService:   ruleService,
		logger:        logger.Named("RuleRefreshJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *RuleRefreshJob) SetupAndStart() error {
	jobSpec := j.cfg.RuleRefreshJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Rule refresh job schedule not defined (RULE_REFRESH_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule rule refresh job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Rule refresh job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *RuleRefreshJob) runJob() {
	j.logger.Info("Starting rule refresh job run...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.ruleService.Refresh(ctx); err != nil {
		j.logger.Error("Rule refresh job run failed", zap.Error(err))
		return
	}
	j.logger.Info("Rule refresh job run completed")
}

// Stop gracefully stops the cron scheduler.
func (j *RuleRefreshJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping rule refresh job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Rule refresh job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Rule refresh job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
