package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// getData 返回完整快照：项目、周期、当前预警与活跃预警
// GET /api/data
func (s *Server) getData(c *gin.Context) {
	snap, err := s.cache.Snapshot()
	if err != nil {
		// 取不到新数据时退回最近一次的完整快照
		last := s.cache.LastGood()
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":         "error",
			"message":        err.Error(),
			"data":           last.Projects,
			"periods":        last.Periods,
			"alerts":         last.Alerts,
			"active_alerts":  s.active.Events(),
			"alert_settings": s.settings.Get(),
			"cached":         true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"data":           snap.Projects,
		"periods":        snap.Periods,
		"alerts":         snap.Alerts,
		"active_alerts":  s.active.Events(),
		"timestamp":      snap.Timestamp.Unix(),
		"alert_settings": s.settings.Get(),
	})
}

// saveSettingsRequest 设置更新请求体
type saveSettingsRequest struct {
	AfternoonAlertTime string `json:"afternoon_alert_time"`
	MorningAlertTime   string `json:"morning_alert_time"`
}

// saveSettings 校验并保存预警时间，随后强制刷新缓存并重建定时任务
// POST /api/save_settings
func (s *Server) saveSettings(c *gin.Context) {
	var req saveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "时间格式无效"})
		return
	}

	updated, err := s.settings.Update(req.AfternoonAlertTime, req.MorningAlertTime)
	if err != nil {
		status := http.StatusBadRequest
		if updated.LastModified != 0 {
			// 校验已通过，落盘失败
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := s.cache.Refresh(true, "settings"); err != nil {
		s.log.Warn().Err(err).Msg("设置更新后刷新缓存失败")
	}
	if err := s.sched.Apply(updated); err != nil {
		s.log.Error().Err(err).Msg("重建预警任务失败")
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "设置已保存"})
}

// health 健康检查
// GET /health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"cache_age": s.cache.Age().Seconds(),
	})
}

// getHistory 最近的刷新与播报记录
// GET /api/history
func (s *Server) getHistory(c *gin.Context) {
	refreshes, err := s.history.RecentRefreshes(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	broadcasts, err := s.history.RecentBroadcasts(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"refreshes":  refreshes,
		"broadcasts": broadcasts,
	})
}
