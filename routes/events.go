package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (ar *APIRoutes) ListEvents(c *gin.Context) {
	page, limit := utils.PageParams(c, 10)

	query := utils.DB.Model(&models.Event{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status <> ?", models.EventStatusDraft)
	}
	if eventType := c.Query("event_type"); eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error counting events")
		return
	}

	var events []models.Event
	if err := query.Preload("Organizer").
		Order("event_date ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&events).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching events")
		return
	}

	utils.RespondList(c, events, utils.NewPagination(total, page, limit))
}

func (ar *APIRoutes) UpcomingEvents(c *gin.Context) {
	var events []models.Event
	if err := utils.DB.Preload("Organizer").
		Where("status = ? AND event_date > ?", models.EventStatusPublished, time.Now()).
		Order("event_date ASC").
		Limit(10).
		Find(&events).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching events")
		return
	}
	utils.RespondData(c, events)
}

func (ar *APIRoutes) EventsByOrganizer(c *gin.Context) {
	organizerID, err := utils.ParamUint(c, "organizerId")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid organizer id")
		return
	}

	var events []models.Event
	if err := utils.DB.Where("organizer_id = ?", organizerID).
		Order("event_date DESC").
		Find(&events).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error fetching events")
		return
	}
	utils.RespondData(c, events)
}

func (ar *APIRoutes) GetEvent(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event id")
		return
	}

	var event models.Event
	if err := utils.DB.Preload("Organizer").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching event")
		}
		return
	}
	utils.RespondData(c, event)
}

type eventRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	EventType   string          `json:"event_type" binding:"required"`
	EventDate   time.Time       `json:"event_date" binding:"required"`
	EndDate     *time.Time      `json:"end_date"`
	Location    string          `json:"location"`
	Capacity    int             `json:"capacity"`
	IsFree      *bool           `json:"is_free"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	ImageURL    string          `json:"image_url"`
}

func (ar *APIRoutes) CreateEvent(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Title, event_type and event_date are required")
		return
	}
	if !models.ValidEventType(req.EventType) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event type")
		return
	}
	if req.Status != "" && !models.ValidEventStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event status")
		return
	}
	if req.Capacity < 0 {
		utils.RespondError(c, http.StatusBadRequest, "Capacity cannot be negative")
		return
	}

	isFree := true
	if req.IsFree != nil {
		isFree = *req.IsFree
	}
	if !isFree && !req.Price.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, "Paid events need a positive price")
		return
	}

	status := req.Status
	if status == "" {
		status = models.EventStatusDraft
	}

	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		EventDate:   req.EventDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Capacity:    req.Capacity,
		IsFree:      isFree,
		Price:       req.Price,
		Status:      status,
		ImageURL:    req.ImageURL,
		OrganizerID: claims.UserID,
	}
	if err := utils.DB.Create(&event).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error creating event")
		return
	}

	utils.RespondCreated(c, "Event created", event)
}

func (ar *APIRoutes) UpdateEvent(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event id")
		return
	}

	var event models.Event
	if err := utils.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondError(c, http.StatusInternalServerError, "Error fetching event")
		}
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if status, ok := req["status"].(string); ok && !models.ValidEventStatus(status) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event status")
		return
	}
	if eventType, ok := req["event_type"].(string); ok && !models.ValidEventType(eventType) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event type")
		return
	}
	if capacity, ok := req["capacity"].(float64); ok && int(capacity) < event.RegisteredCount {
		utils.RespondError(c, http.StatusBadRequest, "Capacity cannot go below registered count")
		return
	}

	// Counters move only through the registration handlers.
	delete(req, "registered_count")
	delete(req, "organizer_id")
	delete(req, "id")

	if err := utils.DB.Model(&event).Updates(req).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error updating event")
		return
	}

	utils.RespondOK(c, "Event updated", event)
}

// DeleteEvent cancels the event rather than deleting the row, so existing
// registrations and payments keep their foreign keys.
func (ar *APIRoutes) DeleteEvent(c *gin.Context) {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid event id")
		return
	}

	result := utils.DB.Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", models.EventStatusCancelled)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Error cancelling event")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "Event not found")
		return
	}

	utils.RespondOK(c, "Event cancelled", nil)
}
