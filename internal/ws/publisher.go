package ws

import (
	"encoding/json"
	"fmt"
	"log"

	"certhub/internal/db"
	"certhub/internal/model"
	"certhub/internal/renewal"
)

const renewalsTopic = "renewals"

// PublishRenewalEvent publishes a renewal workflow event to the database and
// broadcasts it to connected clients.
func PublishRenewalEvent(eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WebSocket] Failed to marshal payload: %v", err)
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// Write event to database so reconnecting clients can catch up
	event := model.WSEvent{
		Topic:     renewalsTopic,
		EventType: eventType,
		Payload:   string(payloadJSON),
	}

	if err := db.GetDB().Create(&event).Error; err != nil {
		log.Printf("[WebSocket] Failed to write event to database: %v", err)
		return fmt.Errorf("failed to write event to database: %w", err)
	}

	// Broadcast failure should not affect the main flow
	BroadcastToAll("renewals:update", map[string]interface{}{
		"eventId": event.ID,
		"type":    eventType,
		"data":    payload,
	})

	return nil
}

// GetIncrementalEvents retrieves renewal events with id > lastEventId,
// limited to maxCount
func GetIncrementalEvents(lastEventId int64, maxCount int) ([]model.WSEvent, error) {
	var events []model.WSEvent

	err := db.GetDB().
		Where("topic = ? AND id > ?", renewalsTopic, lastEventId).
		Order("id ASC").
		Limit(maxCount).
		Find(&events).Error

	return events, err
}

// RenewalSink adapts the broadcast pipeline to the workflow's event
// interface: each step change is persisted and pushed to subscribers.
type RenewalSink struct{}

// RenewalStepChanged implements renewal.EventSink
func (RenewalSink) RenewalStepChanged(uid int, view renewal.StateView) {
	if err := PublishRenewalEvent("step", map[string]interface{}{
		"uid":   uid,
		"state": view,
	}); err != nil {
		log.Printf("[WebSocket] Failed to publish renewal step change: %v", err)
	}
}
