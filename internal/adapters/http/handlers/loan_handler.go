package handlers

import (
	"errors"
	"log/slog"
	"math"

	"loanflow/internal/adapters/http/middleware"
	"loanflow/internal/core/domain"
	"loanflow/internal/core/services"
	"loanflow/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan workflow endpoints
type LoanHandler struct {
	loanService *services.LoanService
	logger      *slog.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService, logger *slog.Logger) *LoanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

// CreateLoanRequest represents create loan request.
// Amount is decoded loosely so a non-numeric value surfaces as a validation error.
type CreateLoanRequest struct {
	Amount  interface{} `json:"amount" swaggertype:"number"`
	Purpose string      `json:"purpose"`
}

// ReviewLoanRequest represents review request
type ReviewLoanRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// DecideLoanRequest represents approve/reject request
type DecideLoanRequest struct {
	Approved interface{} `json:"approved" swaggertype:"boolean"`
}

// LoanResponse wraps a single loan with a message
type LoanResponse struct {
	Message string       `json:"message"`
	Loan    *domain.Loan `json:"loan"`
}

// ReviewLoanResponse echoes the review notes
type ReviewLoanResponse struct {
	Message string       `json:"message"`
	Loan    *domain.Loan `json:"loan"`
	Notes   *string      `json:"notes,omitempty"`
}

// Create submits a new loan application
// @Summary Create loan application
// @Description Submit a new loan application (User only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateLoanRequest true "Loan application"
// @Success 201 {object} LoanResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/v1/loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Access token required")
	}

	var req CreateLoanRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request body", response.CodeValidation)
	}

	input := &services.CreateLoanInput{Purpose: req.Purpose}
	switch v := req.Amount.(type) {
	case nil:
	case float64:
		input.Amount = &v
	default:
		// Not a JSON number; NaN fails the positive-amount check
		nan := math.NaN()
		input.Amount = &nan
	}

	loan, err := h.loanService.Create(c.UserContext(), caller, input)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Created(c, LoanResponse{
		Message: "Loan application created successfully",
		Loan:    loan,
	})
}

// Review marks a loan as under review
// @Summary Review loan
// @Description Mark a pending loan as under review (Officer only). Notes are echoed, not stored.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body ReviewLoanRequest false "Review notes"
// @Success 200 {object} ReviewLoanResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/loans/{id}/review [put]
func (h *LoanHandler) Review(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Access token required")
	}

	var req ReviewLoanRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request body", response.CodeValidation)
	}

	input := &services.ReviewLoanInput{}
	if req.Notes != nil {
		input.Notes = *req.Notes
	}

	loan, err := h.loanService.Review(c.UserContext(), caller, c.Params("id"), input)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Success(c, ReviewLoanResponse{
		Message: "Loan marked as under review",
		Loan:    loan,
		Notes:   req.Notes,
	})
}

// Decide approves or rejects a loan
// @Summary Approve or reject loan
// @Description Make the final decision on a loan under review (Manager only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body DecideLoanRequest true "Decision"
// @Success 200 {object} LoanResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/loans/{id}/approve [put]
func (h *LoanHandler) Decide(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Access token required")
	}

	var req DecideLoanRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request body", response.CodeValidation)
	}

	input := &services.DecideLoanInput{}
	if v, ok := req.Approved.(bool); ok {
		input.Approved = &v
	}

	loan, err := h.loanService.Decide(c.UserContext(), caller, c.Params("id"), input)
	if err != nil {
		return h.handleError(c, err)
	}

	message := "Loan rejected successfully"
	if loan.Status == domain.LoanStatusApproved {
		message = "Loan approved successfully"
	}

	return response.Success(c, LoanResponse{
		Message: message,
		Loan:    loan,
	})
}

// List lists loans
// @Summary List loans
// @Description List loans filtered by status and/or applicant (Officer, Manager)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, under_review, approved, rejected)
// @Param userId query string false "Filter by applicant"
// @Success 200 {object} services.LoanList
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/v1/loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Access token required")
	}

	filter := services.LoanFilter{
		Status: domain.LoanStatus(c.Query("status")),
		UserID: c.Query("userId"),
	}

	list, err := h.loanService.List(c.UserContext(), caller, filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Success(c, list)
}

// ListMine lists the caller's own loans
// @Summary List my loans
// @Description List loans submitted by the current user (User only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.LoanList
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/v1/loans/my [get]
func (h *LoanHandler) ListMine(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Access token required")
	}

	list, err := h.loanService.ListMine(c.UserContext(), caller)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Success(c, list)
}

// Get gets a loan by ID
// @Summary Get loan
// @Description Get a loan by ID (Officer, Manager, or the applicant)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} domain.Loan
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Access token required")
	}

	loan, err := h.loanService.Get(c.UserContext(), caller, c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Success(c, loan)
}

// handleError maps workflow errors to HTTP responses
func (h *LoanHandler) handleError(c *fiber.Ctx, err error) error {
	var transitionErr *domain.InvalidTransitionError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return response.BadRequest(c, validationErr.Message, response.CodeValidation)
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.As(err, &transitionErr):
		return response.BadRequest(c, transitionErr.Error(), response.CodeInvalidTransition)
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to access this resource")
	default:
		h.logger.ErrorContext(c.UserContext(), "unexpected loan workflow failure",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return response.InternalServerError(c)
	}
}

// parseBody decodes a JSON body; an empty body leaves out untouched
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
