package ws

import (
	"encoding/json"
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// handleRequestRenewals handles the request:renewals event: a reconnecting
// client sends the last event id it saw and receives everything newer.
func handleRequestRenewals(s socketio.Conn, data interface{}) {
	log.Printf("[WebSocket] request:renewals from client %s, data: %v", s.ID(), data)

	var lastEventId int64
	if dataMap, ok := data.(map[string]interface{}); ok {
		if lastEventIdFloat, ok := dataMap["lastEventId"].(float64); ok {
			lastEventId = int64(lastEventIdFloat)
		}
	}

	events, err := GetIncrementalEvents(lastEventId, 200)
	if err != nil {
		log.Printf("[WebSocket] Failed to load incremental events: %v", err)
		s.Emit("renewals:error", map[string]interface{}{
			"message": "failed to load events",
		})
		return
	}

	for _, event := range events {
		var payload interface{}
		if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
			log.Printf("[WebSocket] Corrupt event payload id=%d: %v", event.ID, err)
			continue
		}
		s.Emit("renewals:update", map[string]interface{}{
			"eventId": event.ID,
			"type":    event.EventType,
			"data":    payload,
		})
	}
}
