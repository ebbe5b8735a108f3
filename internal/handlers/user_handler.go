package handlers

import (
	"treva/internal/apperrors"
	"treva/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profiles and the follow graph.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/user")
	userRoutes.Get("/search", h.HandleSearch)
	userRoutes.Get("/followers", h.HandleFollowers)
	userRoutes.Get("/following", h.HandleFollowing)
	userRoutes.Post("/follow", h.HandleFollow)
	userRoutes.Delete("/follow", h.HandleUnfollow)
	userRoutes.Get("/", h.HandleGet)
	userRoutes.Patch("/", h.HandleUpdate)
	userRoutes.Delete("/", h.HandleDelete)
}

// HandleGet serves the caller's own profile (?me=1) or another user's
// profile (?id=), both with follower counters.
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	userID := callerID(c)

	targetID := userID
	if c.Query("me") == "" {
		targetID = c.Query("id")
		if targetID == "" {
			return Fail(c, apperrors.ErrInvalidInput)
		}
	}

	profile, err := h.userService.Profile(userID, targetID)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, profile)
}

// HandleUpdate applies a sparse profile update to the caller's own row.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	userID := callerID(c)

	payload := map[string]any{}
	if err := c.BodyParser(&payload); err != nil {
		return Fail(c, apperrors.ErrInvalidJSON)
	}

	profile, err := h.userService.UpdateProfile(userID, payload)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, profile)
}

// HandleDelete soft-deletes the caller's account.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.userService.Delete(callerID(c)); err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{"message": "Account deleted"})
}

// HandleSearch finds users by username, name, surname or email.
func (h *UserHandler) HandleSearch(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", services.SocialPageDefault)

	items, err := h.userService.Search(c.Query("q"), page, limit)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{
		"items": items,
		"page":  page,
		"limit": limit,
	})
}

type followRequest struct {
	UserID string `json:"user_id"`
}

// HandleFollow adds a follow edge from the caller to the target user.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	var req followRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, apperrors.ErrInvalidJSON)
	}
	if err := h.userService.Follow(callerID(c), req.UserID); err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{"message": "Followed"})
}

// HandleUnfollow removes a follow edge.
func (h *UserHandler) HandleUnfollow(c *fiber.Ctx) error {
	var req followRequest
	if err := c.BodyParser(&req); err != nil {
		return Fail(c, apperrors.ErrInvalidJSON)
	}
	if err := h.userService.Unfollow(callerID(c), req.UserID); err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{"message": "Unfollowed"})
}

// HandleFollowers lists users following ?user_id=.
func (h *UserHandler) HandleFollowers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", services.SocialPageDefault)

	items, err := h.userService.Followers(c.Query("user_id"), page, limit)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{
		"items": items,
		"page":  page,
		"limit": limit,
	})
}

// HandleFollowing lists users ?user_id= follows.
func (h *UserHandler) HandleFollowing(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", services.SocialPageDefault)

	items, err := h.userService.Following(c.Query("user_id"), page, limit)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, fiber.StatusOK, fiber.Map{
		"items": items,
		"page":  page,
		"limit": limit,
	})
}
