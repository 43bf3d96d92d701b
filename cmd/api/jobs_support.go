package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/page-forge/internal/jobs"
	"github.com/yourusername/page-forge/internal/pdf"
)

// jobReader は状態取得とキャンセルに必要な Manager の機能です。
type jobReader interface {
	Get(jobID string) (*jobs.Record, error)
	Messages(jobID string, offset int) ([]pdf.StatusMessage, int, error)
	Cancel(jobID string) error
}

func jobStatusHandler(manager jobReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		if strings.TrimSpace(jobID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "jobId is required.",
			})
			return
		}

		offset := 0
		if raw := c.Query("offset"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{
					"code":    "INVALID_INPUT",
					"message": "offset must be a non-negative integer.",
				})
				return
			}
			offset = n
		}

		record, err := manager.Get(jobID)
		if err != nil {
			respondJobError(c, err)
			return
		}
		messages, next, err := manager.Messages(jobID, offset)
		if err != nil {
			respondJobError(c, err)
			return
		}

		payload := gin.H{
			"jobId":     record.JobID,
			"operation": record.Operation,
			"status":    record.Status,
			"progress": gin.H{
				"percent": record.Progress.Percent,
				"stage":   record.Progress.Stage,
			},
			"messages":   messages,
			"nextOffset": next,
			"updatedAt":  record.UpdatedAt,
		}
		if record.Result != nil {
			payload["result"] = record.Result
		}
		if record.Error != nil {
			payload["error"] = record.Error
		}

		c.JSON(http.StatusOK, payload)
	}
}

func jobCancelHandler(manager jobReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		if err := manager.Cancel(jobID); err != nil {
			respondJobError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
	}
}

func respondJobError(c *gin.Context, err error) {
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "JOB_NOT_FOUND",
			"message": "The requested job does not exist.",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    pdf.CodeInternal,
		"message": "Failed to read job state.",
	})
}
