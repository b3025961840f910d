package submissions

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/model"
	"github.com/propelhq/propel-api/services/storage"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/middleware"
	"github.com/propelhq/propel-api/utils/pdfvalidation"
	"github.com/propelhq/propel-api/utils/response"
	"github.com/propelhq/propel-api/utils/validation"
)

// SubmissionHandler manages milestone submissions and their deliverable
// uploads.
type SubmissionHandler struct {
	store     *store.Store
	storage   *storage.SpacesClient
	validator *validation.Validator
}

// NewSubmissionHandler creates a new submission handler. storage may be
// nil when uploads are disabled.
func NewSubmissionHandler(s *store.Store, spaces *storage.SpacesClient) *SubmissionHandler {
	return &SubmissionHandler{
		store:     s,
		storage:   spaces,
		validator: validation.NewValidator(),
	}
}

// CreateSubmissionRequest represents the request body for creating a
// submission draft.
type CreateSubmissionRequest struct {
	TeamID      string `json:"teamId" validate:"required"`
	MilestoneID string `json:"milestoneId" validate:"required"`
	Title       string `json:"title" validate:"omitempty,max=255"`
}

// UpdateSubmissionRequest represents the request body for updating a
// submission. All fields optional.
type UpdateSubmissionRequest struct {
	Title  *string `json:"title" validate:"omitempty,max=255"`
	Status *string `json:"status" validate:"omitempty,oneof=Draft Submitted"`
}

// ListTeamSubmissions handles GET /api/teams/:id/submissions
func (h *SubmissionHandler) ListTeamSubmissions(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	team, err := h.store.TeamByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.BadGateway(c, "Failed to fetch team")
	}
	if team == nil {
		return response.NotFound(c, "Team not found")
	}
	if !team.HasMember(contact.ID) && !contact.IsStaff {
		return response.Forbidden(c, "You are not a member of this team")
	}

	submissions, err := h.store.SubmissionsByTeam(c.Context(), team.ID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch submissions")
	}

	return response.Entity(c, "submissions", submissions)
}

// CreateSubmission handles POST /api/submissions
func (h *SubmissionHandler) CreateSubmission(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	team, err := h.store.TeamByID(c.Context(), req.TeamID)
	if err != nil {
		return response.BadGateway(c, "Failed to fetch team")
	}
	if team == nil {
		return response.NotFound(c, "Team not found")
	}
	if !team.HasMember(contact.ID) {
		return response.Forbidden(c, "You are not a member of this team")
	}

	// One submission per team per milestone; re-creating returns the
	// existing record.
	existing, err := h.store.SubmissionForMilestone(c.Context(), req.TeamID, req.MilestoneID)
	if err != nil {
		return response.BadGateway(c, "Failed to check existing submissions")
	}
	if existing != nil {
		return response.Entity(c, "submission", existing)
	}

	patch := model.SubmissionPatch{
		TeamID:      &req.TeamID,
		MilestoneID: &req.MilestoneID,
	}
	if req.Title != "" {
		patch.Title = &req.Title
	}

	created, err := h.store.CreateSubmission(c.Context(), patch)
	if err != nil {
		if errors.Is(err, store.ErrMissingField) {
			return response.BadRequest(c, err.Error())
		}
		return response.BadGateway(c, "Failed to create submission")
	}

	return response.Created(c, "submission", created)
}

// UpdateSubmission handles PATCH /api/submissions/:id
func (h *SubmissionHandler) UpdateSubmission(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	submission, status, msg := h.loadForMember(c, contact.ID, c.Params("id"))
	if status != 0 {
		return response.Error(c, status, errorCode(status), msg)
	}

	var req UpdateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := model.SubmissionPatch{
		Title:  req.Title,
		Status: req.Status,
	}
	if req.Status != nil && *req.Status == model.SubmissionSubmitted &&
		submission.Status != model.SubmissionSubmitted {
		now := time.Now().UTC()
		patch.SubmittedAt = &now
	}

	updated, err := h.store.UpdateSubmission(c.Context(), submission.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrEmptyPatch) {
			return response.BadRequest(c, "No fields to update")
		}
		return response.BadGateway(c, "Failed to update submission")
	}

	return response.Entity(c, "submission", updated)
}

// UploadFile handles POST /api/submissions/:id/files
// Accepts a multipart form with a "file" part, validates it as a PDF
// deliverable, stores it and appends its public URL to the submission.
func (h *SubmissionHandler) UploadFile(c *fiber.Ctx) error {
	contact, ok := middleware.GetContact(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	if h.storage == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "UPLOADS_DISABLED", "File uploads are not configured")
	}

	submission, status, msg := h.loadForMember(c, contact.ID, c.Params("id"))
	if status != 0 {
		return response.Error(c, status, errorCode(status), msg)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Missing file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Unreadable file upload")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return response.BadRequest(c, "Unreadable file upload")
	}

	result, err := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.DeliverableLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to validate file")
	}
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	key := storage.DeliverableKey(submission.ID, fileHeader.Filename)
	fileURL, err := h.storage.UploadBytes(c.Context(), key, content, storage.ContentType(fileHeader.Filename))
	if err != nil {
		return response.BadGateway(c, "Failed to store file")
	}

	updated, err := h.store.AttachSubmissionFile(c.Context(), submission.ID, fileURL)
	if err != nil {
		return response.BadGateway(c, "File stored but not linked; retry the upload")
	}

	return response.Entity(c, "submission", updated)
}

// loadForMember fetches a submission and checks the caller belongs to
// its team. Returns (submission, 0, "") on success or (nil, httpStatus,
// message) on failure.
func (h *SubmissionHandler) loadForMember(c *fiber.Ctx, contactID, id string) (*model.Submission, int, string) {
	submission, err := h.store.SubmissionByID(c.Context(), id)
	if err != nil {
		return nil, fiber.StatusBadGateway, "Failed to fetch submission"
	}
	if submission == nil {
		return nil, fiber.StatusNotFound, "Submission not found"
	}

	team, err := h.store.TeamByID(c.Context(), submission.TeamID)
	if err != nil {
		return nil, fiber.StatusBadGateway, "Failed to fetch team"
	}
	if team == nil || !team.HasMember(contactID) {
		return nil, fiber.StatusForbidden, "You are not a member of this team"
	}

	return submission, 0, ""
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusBadGateway:
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
