package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sunatstock/internal/api"
	"sunatstock/internal/blob"
	"sunatstock/internal/rpc"
)

type InventoryHTTPHandler struct {
	inventoryClient rpc.InventoryService
	images          blob.Store
	loc             *time.Location
	log             zerolog.Logger
}

// NewInventoryHTTPHandler serves the inventory routes. Date-only query
// parameters are read in loc.
func NewInventoryHTTPHandler(inventoryClient rpc.InventoryService, images blob.Store, loc *time.Location, logger zerolog.Logger) *InventoryHTTPHandler {
	if loc == nil {
		loc = time.Local
	}
	return &InventoryHTTPHandler{
		inventoryClient: inventoryClient,
		images:          images,
		loc:             loc,
		log:             logger,
	}
}

// Helper functions
func (s *InventoryHTTPHandler) success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func (s *InventoryHTTPHandler) created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func (s *InventoryHTTPHandler) error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   message,
	})
}

func (s *InventoryHTTPHandler) fail(c *gin.Context, err error) {
	code, message := httpStatusFromError(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	s.error(c, code, message)
}

func parseIDParam(c *gin.Context, param string) (int64, error) {
	val, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || val <= 0 {
		return 0, errors.New("invalid id")
	}
	return val, nil
}

// parseDateQuery accepts RFC 3339 timestamps or plain dates. A plain date
// means the start of that day, or its last instant when endOfDay is set.
func (s *InventoryHTTPHandler) parseDateQuery(c *gin.Context, param string, endOfDay bool) (*time.Time, error) {
	str := c.Query(param)
	if str == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", str, s.loc)
	if err != nil {
		return nil, errors.New(param + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func (s *InventoryHTTPHandler) parseDateRange(c *gin.Context) (*api.DateRange, error) {
	start, err := s.parseDateQuery(c, "start_date", false)
	if err != nil {
		return nil, err
	}
	end, err := s.parseDateQuery(c, "end_date", true)
	if err != nil {
		return nil, err
	}
	if start == nil && end == nil {
		return nil, nil
	}
	if start == nil || end == nil {
		return nil, errors.New("start_date and end_date must be given together")
	}
	return &api.DateRange{StartDate: *start, EndDate: *end}, nil
}

// Item endpoints
func (s *InventoryHTTPHandler) CreateMedicalItem(c *gin.Context) {
	var req api.CreateMedicalItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := s.inventoryClient.CreateMedicalItem(ctx, req)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.created(c, item)
}

func (s *InventoryHTTPHandler) GetMedicalItems(c *gin.Context) {
	filter := &api.StockFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := s.inventoryClient.GetMedicalItems(ctx, filter)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.success(c, items)
}

func (s *InventoryHTTPHandler) GetMedicalItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		s.error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := s.inventoryClient.GetMedicalItem(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if item == nil {
		s.error(c, http.StatusNotFound, "Medical item not found")
		return
	}

	s.success(c, item)
}

func (s *InventoryHTTPHandler) UpdateMedicalItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		s.error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req api.UpdateMedicalItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.ID = id

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := s.inventoryClient.UpdateMedicalItem(ctx, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if item == nil {
		s.error(c, http.StatusNotFound, "Medical item not found")
		return
	}

	s.success(c, item)
}

func (s *InventoryHTTPHandler) GetLowStockItems(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := s.inventoryClient.GetLowStockItems(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.success(c, items)
}

// Stock endpoints
func (s *InventoryHTTPHandler) RestockItem(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		s.error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req api.RestockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.ItemID = id

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := s.inventoryClient.RestockItem(ctx, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	if item == nil {
		s.error(c, http.StatusNotFound, "Medical item not found")
		return
	}

	s.success(c, item)
}

func (s *InventoryHTTPHandler) GetStockHistory(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		s.error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	history, err := s.inventoryClient.GetStockHistory(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.success(c, history)
}

// Image endpoints
func (s *InventoryHTTPHandler) UploadItemImage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		s.error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, blob.MaxImageSize+1<<20)
	file, err := c.FormFile("image")
	if err != nil {
		s.error(c, http.StatusBadRequest, "Multipart field 'image' is required")
		return
	}
	if file.Size > blob.MaxImageSize {
		s.error(c, http.StatusRequestEntityTooLarge, "Image must be at most 5 MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		s.error(c, http.StatusBadRequest, "Unreadable upload")
		return
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		s.error(c, http.StatusBadRequest, "Unreadable upload")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := blob.ImageExtension(contentType)
	if !ok {
		s.error(c, http.StatusUnsupportedMediaType, "Image must be PNG, JPEG or WebP")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := s.inventoryClient.GetMedicalItem(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if item == nil {
		s.error(c, http.StatusNotFound, "Medical item not found")
		return
	}

	key := blob.ItemImageKey(id, ext)
	if _, err := s.images.Put(ctx, key, io.MultiReader(bytes.NewReader(head), src), contentType); err != nil {
		_ = c.Error(err)
		s.error(c, http.StatusInternalServerError, "Failed to store image")
		return
	}

	updated, err := s.inventoryClient.UpdateMedicalItem(ctx, api.UpdateMedicalItemRequest{
		ID:        id,
		ImagePath: api.Some(key),
	})
	if err != nil || updated == nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned image")
		}
		if err != nil {
			s.fail(c, err)
		} else {
			s.error(c, http.StatusNotFound, "Medical item not found")
		}
		return
	}

	if item.ImagePath != nil && *item.ImagePath != key {
		if err := s.images.Delete(ctx, *item.ImagePath); err != nil {
			s.log.Warn().Err(err).Str("key", *item.ImagePath).Msg("failed to remove replaced image")
		}
	}

	s.success(c, updated)
}

func (s *InventoryHTTPHandler) GetItemImage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		s.error(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := s.inventoryClient.GetMedicalItem(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if item == nil || item.ImagePath == nil {
		s.error(c, http.StatusNotFound, "Image not found")
		return
	}

	info, body, err := s.images.Get(ctx, *item.ImagePath)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			s.error(c, http.StatusNotFound, "Image not found")
			return
		}
		_ = c.Error(err)
		s.error(c, http.StatusInternalServerError, "Failed to read image")
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, nil)
}

// Procedure endpoints
func (s *InventoryHTTPHandler) CreateProcedure(c *gin.Context) {
	var req api.CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	procedure, err := s.inventoryClient.CreateProcedure(ctx, req)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.created(c, procedure)
}

func (s *InventoryHTTPHandler) GetProcedures(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.error(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	procedures, err := s.inventoryClient.GetProcedures(ctx, dateRange)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.success(c, procedures)
}

// Dashboard & report endpoints
func (s *InventoryHTTPHandler) GetDashboardStats(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := s.inventoryClient.GetDashboardStats(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.success(c, stats)
}

func (s *InventoryHTTPHandler) GetUsageReport(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.error(c, http.StatusBadRequest, err.Error())
		return
	}
	if dateRange == nil {
		s.error(c, http.StatusBadRequest, "start_date and end_date are required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := s.inventoryClient.GetUsageReport(ctx, *dateRange)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.success(c, report)
}
