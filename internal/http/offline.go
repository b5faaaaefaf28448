package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OfflineController reports background download progress.
type OfflineController struct {
	monitor   OfflineMonitor
	history   OfflineHistory
	scheduler ResumeScheduler
}

func NewOfflineController(monitor OfflineMonitor, history OfflineHistory, scheduler ResumeScheduler) *OfflineController {
	return &OfflineController{monitor: monitor, history: history, scheduler: scheduler}
}

// Status handles GET /api/offline/status
func (oc *OfflineController) Status(c *gin.Context) {
	resp := gin.H{"sync": oc.monitor.Status()}
	if oc.history != nil {
		record, err := oc.history.GetSyncProgress()
		switch {
		case err != nil:
			log.Printf("[OFFLINE] Failed to read last run: %v", err)
		case record != nil:
			resp["last_run"] = record
		}
	}
	if oc.scheduler != nil {
		resp["scheduler_running"] = oc.scheduler.IsRunning()
		if next := oc.scheduler.GetNextRunTime(); next != nil {
			resp["next_resume_at"] = next.UTC()
		}
	}
	c.JSON(http.StatusOK, resp)
}
