package handlers

import (
	"net/http"

	"mediadesk-backend/dtos"
	"mediadesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImportMediaAssets accepts a batch of asset rows and processes them in the
// background. Unlike CreateMediaAsset's array form, the import is best-effort:
// bad rows are recorded per-index and the rest still land.
func (h *MediaAssetHandler) ImportMediaAssets(c *gin.Context) {
	var req dtos.AssetImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Assets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty asset list"})
		return
	}

	job := utils.Store.CreateJob(len(req.Assets))
	go h.processImport(job.ID, req.Assets)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID,
		"total":  len(req.Assets),
	})
}

func (h *MediaAssetHandler) processImport(jobID uuid.UUID, rows []dtos.AssetImportRow) {
	utils.Store.SetProcessing(jobID)

	for i, row := range rows {
		req := assetRequest{
			Subject:  &row.Subject,
			Duration: &row.Duration,
		}
		if row.CategoryID != "" {
			categoryID := row.CategoryID
			req.CategoryID = &categoryID
		}
		if row.Genre != "" {
			genre := row.Genre
			req.Genre = &genre
		}
		if row.Item != "" {
			item := row.Item
			req.Item = &item
		}
		if row.CreationDate != "" {
			creationDate := row.CreationDate
			req.CreationDate = &creationDate
		}

		asset, errMsg := h.buildAsset(req)
		if errMsg == "" {
			if err := h.DB.Create(&asset).Error; err != nil {
				errMsg = "Failed to save media asset"
			}
		}

		index := i
		utils.Store.UpdateJob(jobID, func(job *dtos.ImportJob) {
			job.Processed++
			if errMsg == "" {
				job.Created++
			} else {
				job.Failed++
				job.Errors = append(job.Errors, dtos.ImportError{
					Index:   index,
					Subject: row.Subject,
					Error:   errMsg,
				})
			}
			if job.Total > 0 {
				job.Progress = job.Processed * 100 / job.Total
			}
		})
	}

	status := dtos.JobStatusCompleted
	if job, ok := utils.Store.GetJob(jobID); ok && job.Created == 0 && job.Total > 0 {
		status = dtos.JobStatusFailed
	}
	utils.Store.CompleteJob(jobID, status)
	log.Info().Str("job_id", jobID.String()).Int("rows", len(rows)).Msg("media asset import finished")
}

func (h *MediaAssetHandler) GetImportJobStatus(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	job, ok := utils.Store.GetJob(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}
