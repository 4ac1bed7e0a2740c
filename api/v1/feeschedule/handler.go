package feeschedule

import (
	"time"

	"certhub/internal/feeschedule"
	"certhub/internal/httpx"

	"github.com/gin-gonic/gin"
)

// SnapshotResponse exposes the resolved schedule and where it came from
type SnapshotResponse struct {
	Schedule feeschedule.Schedule `json:"schedule"`
	Origin   string               `json:"origin"`
	LoadedAt string               `json:"loadedAt"`
}

// GetHandler returns the session fee schedule, loading it on first use
func GetHandler(provider *feeschedule.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := provider.Load(c.Request.Context())
		httpx.OK(c, toResponse(snap))
	}
}

// RefreshHandler forces a reload from the settings store. Resolution never
// fails outward; a degraded origin is visible in the response.
func RefreshHandler(provider *feeschedule.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := provider.Refresh(c.Request.Context())
		httpx.OK(c, toResponse(snap))
	}
}

func toResponse(snap *feeschedule.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Schedule: snap.Schedule,
		Origin:   string(snap.Origin),
		LoadedAt: snap.LoadedAt.Format(time.RFC3339),
	}
}
