package handlers

import (
	"strings"

	"treva/internal/apperrors"
	"treva/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MediaHandler handles HTTP requests for trip media attachments.
type MediaHandler struct {
	mediaService *services.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// RegisterRoutes registers the media routes.
func (h *MediaHandler) RegisterRoutes(router fiber.Router) {
	mediaRoutes := router.Group("/media")
	mediaRoutes.Post("/", h.HandleUpload)
	mediaRoutes.Get("/", h.HandleList)
	mediaRoutes.Delete("/", h.HandleDelete)
}

// HandleUpload adds files to one of the caller's trips. Multipart only;
// files go under the "media" field, the target trip under "trip_id".
func (h *MediaHandler) HandleUpload(c *fiber.Ctx) error {
	userID := callerID(c)

	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), "multipart/form-data") {
		return Fail(c, apperrors.ErrNotMultipart)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return Fail(c, apperrors.ErrInvalidInput)
	}

	tripID := ""
	if vals := form.Value["trip_id"]; len(vals) > 0 {
		tripID = vals[0]
	}

	saved, err := h.mediaService.Upload(userID, tripID, form.File["media"])
	if err != nil {
		return Fail(c, err)
	}
	items, err := h.mediaService.ListForTrip(userID, tripID)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusCreated, fiber.Map{
		"message": "Media uploaded",
		"saved":   saved,
		"items":   items,
	})
}

// HandleList returns the media of one of the caller's trips.
func (h *MediaHandler) HandleList(c *fiber.Ctx) error {
	userID := callerID(c)

	items, err := h.mediaService.ListForTrip(userID, c.Query("trip_id"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{"items": items})
}

// HandleDelete removes a single media item and returns the trip's remaining
// media. The id comes from the query string or a JSON body.
func (h *MediaHandler) HandleDelete(c *fiber.Ctx) error {
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

	items, err := h.mediaService.Delete(userID, id)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{
		"message": "Media deleted",
		"id":      id,
		"items":   items,
	})
}
