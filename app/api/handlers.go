package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"videos":    len(h.store.AllTitles()),
	}

	if lastUpdate, ok := h.store.Freshness(); ok {
		health["last_update"] = lastUpdate.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := gin.H{
		"videos":     len(h.store.AllTitles()),
		"channels":   h.channels.GetChannelCount(),
		"threshold":  h.matcher.Threshold(),
		"refreshing": h.scheduler.IsRefreshing(),
		"version":    h.version,
	}

	if lastUpdate, ok := h.store.Freshness(); ok {
		stats["last_update"] = lastUpdate.UTC().Format(time.RFC3339)
	} else {
		stats["last_update"] = nil
	}

	c.JSON(http.StatusOK, stats)
}

// GetMatch exposes the matching decision for a query string, for threshold
// tuning and debugging.
func (h *Handler) GetMatch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	title, url, score, matched := h.matcher.Match(query)

	result := gin.H{
		"query":     query,
		"matched":   matched,
		"score":     score,
		"threshold": h.matcher.Threshold(),
	}
	if title != "" {
		result["title"] = title
	}
	if matched {
		result["url"] = url
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) APIListVideos(c *gin.Context) {
	titles := h.store.AllTitles()

	videos := make([]gin.H, 0, len(titles))
	for _, title := range titles {
		url, ok := h.store.Lookup(title)
		if !ok {
			continue
		}
		videos = append(videos, gin.H{"title": title, "url": url})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(videos), "videos": videos})
}

func (h *Handler) APITriggerRefresh(c *gin.Context) {
	if !h.scheduler.TriggerRefresh() {
		c.JSON(http.StatusConflict, gin.H{"error": "a refresh cycle is already in flight"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
}
