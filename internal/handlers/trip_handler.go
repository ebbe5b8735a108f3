package handlers

import (
	"strconv"
	"strings"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TripHandler handles HTTP requests for trips. Creation accepts either a
// JSON body or a multipart form carrying media files alongside the fields.
type TripHandler struct {
	tripService  *services.TripService
	mediaService *services.MediaService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *services.TripService, mediaService *services.MediaService) *TripHandler {
	return &TripHandler{
		tripService:  tripService,
		mediaService: mediaService,
	}
}

// RegisterRoutes registers the trip routes.
func (h *TripHandler) RegisterRoutes(router fiber.Router) {
	tripRoutes := router.Group("/trip")
	tripRoutes.Get("/", h.HandleGet)
	tripRoutes.Post("/", h.HandleCreate)
	tripRoutes.Put("/", h.HandleUpdate)
	tripRoutes.Delete("/", h.HandleDelete)
}

// HandleGet serves both a single trip (?id=) and the paginated listing
// (?page=&per_page=), each with nested media.
func (h *TripHandler) HandleGet(c *fiber.Ctx) error {
	userID := callerID(c)

	if id := c.Query("id"); id != "" {
		trip, err := h.tripService.GetTrip(userID, id)
		if err != nil {
			return Fail(c, err)
		}
		return Success(c, fiber.StatusOK, fiber.Map{"trip": trip})
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", services.TripPageDefault)
	result, err := h.tripService.ListTrips(userID, page, perPage)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, result)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), "multipart/form-data")
}

// HandleCreate creates a trip, optionally saving attached media files when
// the body is multipart.
func (h *TripHandler) HandleCreate(c *fiber.Ctx) error {
	userID := callerID(c)

	if isMultipart(c) {
		return h.createFromForm(c, userID)
	}

	var req struct {
		Title       string   `json:"title"`
		Description *string  `json:"description"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, apperrors.ErrInvalidJSON)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return Fail(c, apperrors.ErrInvalidInput)
	}

	trip, err := h.tripService.CreateTrip(userID, services.TripInput{
		Title:       req.Title,
		Description: req.Description,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
	})
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusCreated, fiber.Map{
		"message": "Trip created",
		"trip":    trip,
	})
}

func (h *TripHandler) createFromForm(c *fiber.Ctx, userID string) error {
	form, err := c.MultipartForm()
	if err != nil {
		return Fail(c, apperrors.ErrInvalidInput)
	}

	formValue := func(key string) (string, bool) {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}

	title, _ := formValue("title")
	latRaw, latOK := formValue("latitude")
	lngRaw, lngOK := formValue("longitude")
	if !latOK || !lngOK {
		return Fail(c, apperrors.ErrInvalidInput)
	}
	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lng, lngErr := strconv.ParseFloat(lngRaw, 64)
	if latErr != nil || lngErr != nil {
		return Fail(c, apperrors.ErrInvalidInput)
	}

	in := services.TripInput{Title: title, Latitude: lat, Longitude: lng}
	if desc, ok := formValue("description"); ok {
		in.Description = &desc
	}

	trip, err := h.tripService.CreateTrip(userID, in)
	if err != nil {
		return Fail(c, err)
	}

	if files := form.File["media"]; len(files) > 0 {
		saved, err := h.mediaService.Upload(userID, trip.ID, files)
		if err != nil {
			return Fail(c, err)
		}
		trip.Media = saved
		trip.MediaCount = len(saved)
	} else {
		trip.Media = []models.Media{}
	}

	return Success(c, fiber.StatusCreated, fiber.Map{
		"message": "Trip created",
		"trip":    trip,
	})
}

// HandleUpdate applies a partial update to one of the caller's trips. The
// body is a sparse JSON object; unknown keys are ignored.
func (h *TripHandler) HandleUpdate(c *fiber.Ctx) error {
	userID := callerID(c)

	payload := map[string]any{}
	if err := c.BodyParser(&payload); err != nil {
		return Fail(c, apperrors.ErrInvalidJSON)
	}
	id, _ := payload["id"].(string)

	trip, err := h.tripService.UpdateTrip(userID, id, payload)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{
		"message": "Trip updated",
		"trip":    trip,
	})
}

// HandleDelete removes a trip and cascades its media. The id comes from the
// query string or, failing that, a JSON body.
func (h *TripHandler) HandleDelete(c *fiber.Ctx) error {
	userID := callerID(c)

	id := c.Query("id")
	if id == "" {
		var body struct {
			ID string `json:"id"`
		}
		if err := c.BodyParser(&body); err == nil {
			id = body.ID
		}
	}

	if err := h.tripService.DeleteTrip(userID, id); err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{
		"message": "Trip deleted",
		"id":      id,
	})
}
