package api

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// QuestionHandler serves the admin question management endpoints.
type QuestionHandler struct {
	questionService service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// --- Request/Response Structs ---

type QuestionRequest struct {
	Key        string                  `json:"key" binding:"required"`
	Label      string                  `json:"label" binding:"required"`
	HelpText   string                  `json:"helpText"`
	InputType  domain.InputType        `json:"inputType" binding:"required"`
	Options    []domain.QuestionOption `json:"options"`
	Range      *domain.RangeBounds     `json:"range"`
	IsRequired bool                    `json:"isRequired"`
	SortOrder  int                     `json:"sortOrder"`
	IsEnabled  bool                    `json:"isEnabled"`
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// --- Handler Methods ---

// ListAll returns every question, enabled or not.
func (h *QuestionHandler) ListAll(c *gin.Context) {
	questions, err := h.questionService.ListAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), questionFromRequest(&req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	questionID, ok := pathObjectID(c, "questionId")
	if !ok {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	question := questionFromRequest(&req)
	question.ID = questionID

	updated, err := h.questionService.Update(c.Request.Context(), question)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetEnabled toggles a question without deleting it, so past responses keep
// their answer keys.
func (h *QuestionHandler) SetEnabled(c *gin.Context) {
	questionID, ok := pathObjectID(c, "questionId")
	if !ok {
		return
	}

	var req SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.questionService.SetEnabled(c.Request.Context(), questionID, *req.Enabled); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func questionFromRequest(req *QuestionRequest) *domain.Question {
	return &domain.Question{
		Key:        req.Key,
		Label:      req.Label,
		HelpText:   req.HelpText,
		InputType:  req.InputType,
		Options:    req.Options,
		Range:      req.Range,
		IsRequired: req.IsRequired,
		SortOrder:  req.SortOrder,
		IsEnabled:  req.IsEnabled,
	}
}
