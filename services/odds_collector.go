package services

import (
	"context"
	"fmt"
	"time"

	"pickem-app-go/logging"
	"pickem-app-go/metrics"
	"pickem-app-go/models"
)

// OddsCollector fetches the current betting board from the provider and
// persists it verbatim as a raw audit record.
type OddsCollector struct {
	client     *OddsAPIClient
	rawRecords RawRecordRepository
	logger     *logging.Logger
}

// NewOddsCollector creates a new odds collector
func NewOddsCollector(client *OddsAPIClient, rawRecords RawRecordRepository) *OddsCollector {
	return &OddsCollector{
		client:     client,
		rawRecords: rawRecords,
		logger:     logging.WithPrefix("OddsCollector"),
	}
}

// CollectOdds runs one collection: fetch, then persist the untouched
// payload. A provider failure writes nothing; the cycle is simply skipped.
func (c *OddsCollector) CollectOdds(ctx context.Context, trigger models.TriggerSource) (*models.RawRecord, error) {
	metrics.CollectorRuns.WithLabelValues(metrics.CollectorOdds).Inc()

	result, err := c.client.FetchOdds(ctx)
	if err != nil {
		metrics.CollectorFailures.WithLabelValues(metrics.CollectorOdds).Inc()
		c.logger.Errorf("Odds fetch failed (%s): %v", trigger, err)
		return nil, fmt.Errorf("odds collection failed: %w", err)
	}

	if result.QuotaRemaining >= 0 {
		metrics.QuotaRemaining.Set(float64(result.QuotaRemaining))
	}

	record := &models.RawRecord{
		APITimestamp:     time.Now().UTC(),
		APIType:          models.OddsAPIType(trigger),
		APIParameters:    result.Params,
		Payload:          result.Raw,
		GameCount:        len(result.Games),
		AutomationRun:    trigger != models.TriggerManual,
		AutomationSource: automationSource(trigger),
	}

	if err := c.rawRecords.Insert(ctx, record); err != nil {
		metrics.CollectorFailures.WithLabelValues(metrics.CollectorOdds).Inc()
		return nil, fmt.Errorf("failed to persist odds record: %w", err)
	}

	c.logger.Infof("Collected odds for %d games (%s, record %s)",
		record.GameCount, record.APIType, record.ID.Hex())
	return record, nil
}

// RecentRecords lists collection metadata for the admin audit view, most
// recent first. Payloads are elided by the repository.
func (c *OddsCollector) RecentRecords(ctx context.Context, apiType string, limit int) ([]*models.RawRecord, error) {
	records, err := c.rawRecords.List(ctx, apiType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw records: %w", err)
	}
	return records, nil
}

// automationSource names the component behind a trigger for the audit trail.
func automationSource(trigger models.TriggerSource) string {
	switch trigger {
	case models.TriggerAutomated:
		return "background_updater"
	case models.TriggerScheduled:
		return "scheduler"
	default:
		return "manual"
	}
}
