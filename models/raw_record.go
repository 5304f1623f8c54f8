package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TriggerSource identifies what kicked off a collection run.
type TriggerSource string

const (
	TriggerManual    TriggerSource = "manual"    // admin endpoint or one-off CLI run
	TriggerAutomated TriggerSource = "automated" // in-process background updater
	TriggerScheduled TriggerSource = "scheduled" // external scheduler (cron, CI)
)

// API call types recorded on raw audit documents.
const (
	APITypeGetOdds            = "get_odds"
	APITypeAutomatedGetOdds   = "automated_get_odds"
	APITypeScheduledGetOdds   = "scheduled_get_odds"
	APITypeGetScores          = "get_scores"
	APITypeAutomatedGetScores = "automated_get_scores"
	APITypeScheduledGetScores = "scheduled_get_scores"
)

// RawRecord is the immutable audit copy of one provider API call: the exact
// payload received plus enough metadata to replay or debug it later.
type RawRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	APITimestamp     time.Time          `bson:"api_timestamp" json:"api_timestamp"`
	APIType          string             `bson:"api_type" json:"api_type"`
	APIParameters    map[string]string  `bson:"api_parameters" json:"api_parameters"`
	Payload          []byte             `bson:"payload" json:"-"`
	GameCount        int                `bson:"game_count" json:"game_count"`
	AutomationRun    bool               `bson:"automation_run" json:"automation_run"`
	AutomationSource string             `bson:"automation_source" json:"automation_source"`
}

// OddsAPIType returns the api_type string for an odds collection run.
func OddsAPIType(trigger TriggerSource) string {
	switch trigger {
	case TriggerAutomated:
		return APITypeAutomatedGetOdds
	case TriggerScheduled:
		return APITypeScheduledGetOdds
	default:
		return APITypeGetOdds
	}
}

// ScoresAPIType returns the api_type string for a scores collection run.
func ScoresAPIType(trigger TriggerSource) string {
	switch trigger {
	case TriggerAutomated:
		return APITypeAutomatedGetScores
	case TriggerScheduled:
		return APITypeScheduledGetScores
	default:
		return APITypeGetScores
	}
}

// IsOddsRecord reports whether this record came from an odds collection.
func (r *RawRecord) IsOddsRecord() bool {
	switch r.APIType {
	case APITypeGetOdds, APITypeAutomatedGetOdds, APITypeScheduledGetOdds:
		return true
	}
	return false
}
