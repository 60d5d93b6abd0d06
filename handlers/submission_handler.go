package handlers

import (
	"github.com/bankportal/portal-backend/models"
	"github.com/bankportal/portal-backend/services"
	"github.com/bankportal/portal-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type SubmissionHandler struct {
	Service *services.SubmissionService
}

func NewSubmissionHandler(service *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{Service: service}
}

// CreateTask handles POST /api/v1/tasks.
func (h *SubmissionHandler) CreateTask(c *fiber.Ctx) error {
	var submission models.TaskSubmission
	if err := c.BodyParser(&submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if submission.ContactPerson == "" || submission.ContactEmail == "" || submission.CompanyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "contactPerson, contactEmail and companyName are required",
		})
	}
	if submission.SelectedGroup.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "selectedGroup is required",
		})
	}

	if err := h.Service.AppendTask(c.Context(), &submission); err != nil {
		return submissionErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    submission,
	})
}

// ListTasks handles GET /api/v1/tasks.
func (h *SubmissionHandler) ListTasks(c *fiber.Ctx) error {
	submissions, err := h.Service.LoadTasks(c.Context())
	if err != nil {
		return submissionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    submissions,
	})
}

// UpdateTaskStatus handles PATCH /api/v1/tasks/:id/status. Updating an
// unknown id returns the unchanged list rather than an error.
func (h *SubmissionHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	type Request struct {
		Status        models.TaskStatus `json:"status"`
		EmployeeNotes string            `json:"employeeNotes"`
	}

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	submissions, err := h.Service.UpdateTaskStatus(c.Context(), c.Params("id"), req.Status, req.EmployeeNotes)
	if err != nil {
		return submissionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    submissions,
	})
}

// CreateMeeting handles POST /api/v1/meetings.
func (h *SubmissionHandler) CreateMeeting(c *fiber.Ctx) error {
	var submission models.CashManagementSubmission
	if err := c.BodyParser(&submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if submission.CompanyName == "" || submission.ContactPerson == "" || submission.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "companyName, contactPerson and email are required",
		})
	}

	if err := h.Service.AppendMeeting(c.Context(), &submission); err != nil {
		return submissionErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    submission,
	})
}

// ListMeetings handles GET /api/v1/meetings.
func (h *SubmissionHandler) ListMeetings(c *fiber.Ctx) error {
	submissions, err := h.Service.LoadMeetings(c.Context())
	if err != nil {
		return submissionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    submissions,
	})
}

// UpdateMeetingStatus handles PATCH /api/v1/meetings/:id/status.
func (h *SubmissionHandler) UpdateMeetingStatus(c *fiber.Ctx) error {
	type Request struct {
		Status        models.MeetingStatus `json:"status"`
		EmployeeNotes string               `json:"employeeNotes"`
	}

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	submissions, err := h.Service.UpdateMeetingStatus(c.Context(), c.Params("id"), req.Status, req.EmployeeNotes)
	if err != nil {
		return submissionErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    submissions,
	})
}

// submissionErrorResponse maps service errors onto HTTP statuses:
// validation failures are the caller's fault, everything else is a 500.
func submissionErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if shared.CategoryOf(err) == shared.ErrorCategoryValidation {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
