package points

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/middleware"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// PointsHandler serves points balances and reward claims.
type PointsHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewPointsHandler creates a new points handler.
func NewPointsHandler(s *store.Store) *PointsHandler {
	return &PointsHandler{
		store:     s,
		validator: validation.NewValidator(),
	}
}

// ClaimRewardRequest represents the request body for claiming a reward.
type ClaimRewardRequest struct {
	RewardID string `json:"rewardId" validate:"required"`
}

// GetPoints handles GET /api/user/points
func (h *PointsHandler) GetPoints(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	transactions, err := h.store.PointsByContact(c.Context(), contact.ID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch points")
	}

	total := 0
	for i := range transactions {
		total += transactions[i].Amount
	}

	return response.Entity(c, "points", fiber.Map{
		"total":        total,
		"transactions": transactions,
	})
}

// ListRewards handles GET /api/rewards
func (h *PointsHandler) ListRewards(c *fiber.Ctx) error {
	rewards, err := h.store.Rewards(c.Context())
	if err != nil {
		return response.BadGateway(c, "Failed to fetch rewards")
	}
	return response.Entity(c, "rewards", rewards)
}

// ClaimReward handles POST /api/rewards/claim
func (h *PointsHandler) ClaimReward(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ClaimRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	claim, err := h.store.ClaimReward(c.Context(), contact.ID, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientPoints):
			return response.Conflict(c, "Not enough points to claim this reward")
		case errors.Is(err, store.ErrMissingField):
			return response.BadRequest(c, err.Error())
		}
		return response.BadGateway(c, err.Error())
	}

	return response.Created(c, "claim", claim)
}
