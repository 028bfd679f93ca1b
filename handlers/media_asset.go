package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mediadesk-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MediaAssetHandler struct {
	DB *gorm.DB
}

// Columns the listing endpoint may sort by, keyed by the query-parameter
// value. Everything sorts descending.
var assetSortColumns = map[string]string{
	"subject":      "subject",
	"duration":     "duration_seconds",
	"creationDate": "creation_date",
	"createdAt":    "created_at",
}

const (
	defaultAssetPage  = 1
	defaultAssetLimit = 10
	maxAssetLimit     = 100
)

// assetRequest is the create/update body for a single media asset. Genre and
// Item are the denormalized snapshot strings supplied by the caller; when a
// category is given and they are blank, they are filled from the hierarchy.
type assetRequest struct {
	CategoryID   *string `json:"category_id"`
	Genre        *string `json:"genre"`
	Item         *string `json:"item"`
	Subject      *string `json:"subject"`
	Duration     *string `json:"duration"`
	CreationDate *string `json:"creation_date"`
}

func parseCreationDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// buildAsset validates one asset payload and resolves its category snapshot.
// Returns a non-empty message on validation failure.
func (h *MediaAssetHandler) buildAsset(req assetRequest) (models.MediaAsset, string) {
	asset := models.MediaAsset{ID: uuid.New()}

	if req.Subject == nil || strings.TrimSpace(*req.Subject) == "" {
		return asset, "Please provide a subject"
	}
	asset.Subject = strings.TrimSpace(*req.Subject)

	if req.Duration == nil || strings.TrimSpace(*req.Duration) == "" {
		return asset, "Please provide duration"
	}
	secs, err := models.ParseClockDuration(*req.Duration)
	if err != nil {
		return asset, "Duration must be in mm:ss or h:mm:ss format"
	}
	asset.Duration = strings.TrimSpace(*req.Duration)
	asset.DurationSeconds = secs

	if req.CreationDate != nil && *req.CreationDate != "" {
		t, ok := parseCreationDate(*req.CreationDate)
		if !ok {
			return asset, "Invalid creation date"
		}
		asset.CreationDate = t
	} else {
		asset.CreationDate = time.Now()
	}

	if req.Genre != nil {
		asset.Genre = *req.Genre
	}
	if req.Item != nil {
		asset.Item = *req.Item
	}

	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return asset, "Invalid category ID"
		}
		var sub models.Category
		if err := h.DB.Where("id = ?", categoryID).First(&sub).Error; err != nil {
			return asset, "Category not found"
		}
		asset.CategoryID = &categoryID

		// Snapshot the names at write time; later renames must not rewrite
		// this asset.
		if asset.Item == "" {
			asset.Item = sub.Name
		}
		if asset.Genre == "" && sub.ParentID != nil {
			var main models.Category
			if err := h.DB.Where("id = ?", sub.ParentID).First(&main).Error; err == nil {
				asset.Genre = main.Name
			}
		}
	}

	if asset.Genre == "" || asset.Item == "" {
		return asset, "Please provide genre and item"
	}

	return asset, ""
}

// GetMediaAssets returns a filtered, paginated, sorted page of the catalog.
func (h *MediaAssetHandler) GetMediaAssets(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = defaultAssetPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > maxAssetLimit {
		limit = defaultAssetLimit
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.MediaAsset{})

	if subject := c.Query("subject"); subject != "" {
		query = query.Where("LOWER(subject) LIKE LOWER(?)", "%"+subject+"%")
	}

	// Sub-category filter takes priority over the main-category filter. A
	// main category expands to all sub-categories beneath it (plus its own
	// id, for legacy rows tagged directly against a main).
	subCat := c.Query("subCat")
	mainCat := c.Query("mainCat")
	if subCat != "" && subCat != "all" {
		// Parse before querying; Postgres turns a malformed uuid in a cast
		// into a query error, not an empty result.
		subCatID, err := uuid.Parse(subCat)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		query = query.Where("category_id = ?", subCatID)
	} else if mainCat != "" && mainCat != "all" {
		mainCatID, err := uuid.Parse(mainCat)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		var subIDs []uuid.UUID
		if err := h.DB.Model(&models.Category{}).Where("parent_id = ?", mainCatID).Pluck("id", &subIDs).Error; err != nil {
			log.Error().Err(err).Msg("failed to resolve sub-categories")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media assets"})
			return
		}
		ids := append(subIDs, mainCatID)
		query = query.Where("category_id IN ?", ids)
	}

	// Duration range compares against the derived seconds column; durations
	// stored as text would otherwise sort "9:00" after "10:00".
	if minDuration := c.Query("minDuration"); minDuration != "" {
		if secs, err := models.ParseClockDuration(minDuration); err == nil {
			query = query.Where("duration_seconds >= ?", secs)
		}
	}
	if maxDuration := c.Query("maxDuration"); maxDuration != "" {
		if secs, err := models.ParseClockDuration(maxDuration); err == nil {
			query = query.Where("duration_seconds <= ?", secs)
		}
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if from, err := time.Parse("2006-01-02", dateFrom); err == nil {
			query = query.Where("creation_date >= ?", from)
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if to, err := time.Parse("2006-01-02", dateTo); err == nil {
			// Inclusive: push the bound to the end of that calendar day
			endOfDay := to.Add(24*time.Hour - time.Millisecond)
			query = query.Where("creation_date <= ?", endOfDay)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error().Err(err).Msg("failed to count media assets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media assets"})
		return
	}

	sortColumn, ok := assetSortColumns[c.Query("sort")]
	if !ok {
		sortColumn = "created_at"
	}

	assets := make([]models.MediaAsset, 0, limit)
	if err := query.Order(sortColumn + " DESC").Offset(offset).Limit(limit).Find(&assets).Error; err != nil {
		log.Error().Err(err).Msg("failed to fetch media assets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media assets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mediaAssets": assets,
		"totalAssets": total,
		"page":        page,
		"limit":       limit,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (h *MediaAssetHandler) GetMediaAsset(c *gin.Context) {
	id := c.Param("id")
	var asset models.MediaAsset

	if err := h.DB.Where("id = ?", id).First(&asset).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media asset not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mediaAsset": asset})
}

// CreateMediaAsset accepts either a single asset object or an array of them.
// The array form is atomic: any invalid row aborts the whole batch.
func (h *MediaAssetHandler) CreateMediaAsset(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var reqs []assetRequest
		if err := json.Unmarshal(body, &reqs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if len(reqs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Empty asset list"})
			return
		}

		assets := make([]models.MediaAsset, 0, len(reqs))
		for i, req := range reqs {
			asset, errMsg := h.buildAsset(req)
			if errMsg != "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": errMsg, "index": i})
				return
			}
			assets = append(assets, asset)
		}

		if err := h.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&assets).Error
		}); err != nil {
			log.Error().Err(err).Msg("failed to create media assets")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create media assets"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"mediaAssets": assets})
		return
	}

	var req assetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	asset, errMsg := h.buildAsset(req)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	if err := h.DB.Create(&asset).Error; err != nil {
		log.Error().Err(err).Msg("failed to create media asset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create media asset"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mediaAsset": asset})
}

func (h *MediaAssetHandler) UpdateMediaAsset(c *gin.Context) {
	id := c.Param("id")
	var asset models.MediaAsset

	if err := h.DB.Where("id = ?", id).First(&asset).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media asset not found"})
		return
	}

	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Subject != nil {
		subject := strings.TrimSpace(*req.Subject)
		if subject == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a subject"})
			return
		}
		asset.Subject = subject
	}
	if req.Duration != nil {
		secs, err := models.ParseClockDuration(*req.Duration)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be in mm:ss or h:mm:ss format"})
			return
		}
		asset.Duration = strings.TrimSpace(*req.Duration)
		asset.DurationSeconds = secs
	}
	if req.CreationDate != nil && *req.CreationDate != "" {
		t, ok := parseCreationDate(*req.CreationDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid creation date"})
			return
		}
		asset.CreationDate = t
	}
	if req.Genre != nil {
		asset.Genre = *req.Genre
	}
	if req.Item != nil {
		asset.Item = *req.Item
	}
	if req.CategoryID != nil {
		if strings.TrimSpace(*req.CategoryID) == "" {
			asset.CategoryID = nil
		} else {
			categoryID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
				return
			}
			if err := h.DB.Where("id = ?", categoryID).First(&models.Category{}).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
				return
			}
			asset.CategoryID = &categoryID
		}
	}

	if err := h.DB.Model(&asset).Select("category_id", "genre", "item", "subject", "duration", "duration_seconds", "creation_date").Updates(map[string]interface{}{
		"category_id":      asset.CategoryID,
		"genre":            asset.Genre,
		"item":             asset.Item,
		"subject":          asset.Subject,
		"duration":         asset.Duration,
		"duration_seconds": asset.DurationSeconds,
		"creation_date":    asset.CreationDate,
	}).Error; err != nil {
		log.Error().Err(err).Msg("failed to update media asset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update media asset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"mediaAsset": asset})
}

func (h *MediaAssetHandler) DeleteMediaAsset(c *gin.Context) {
	id := c.Param("id")
	var asset models.MediaAsset

	if err := h.DB.Where("id = ?", id).First(&asset).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media asset not found"})
		return
	}

	if err := h.DB.Delete(&asset).Error; err != nil {
		log.Error().Err(err).Msg("failed to delete media asset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete media asset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media asset deleted successfully"})
}
