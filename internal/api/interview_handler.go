package api

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// InterviewHandler holds the interview service dependency.
type InterviewHandler struct {
	interviewService service.InterviewService
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewService service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

// --- Request/Response Structs ---

type SubmitInterviewRequest struct {
	SessionID string         `json:"sessionId" binding:"required"`
	Answers   map[string]any `json:"answers" binding:"required"`
}

type ResponseDTO struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	Answers   map[string]any `json:"answers"`
	CreatedAt time.Time      `json:"createdAt"`
}

// --- Handler Methods ---

// GetQuestions returns the enabled interview questions in display order.
// Public: prospective users can preview the interview before registering.
func (h *InterviewHandler) GetQuestions(c *gin.Context) {
	questions, err := h.interviewService.Questions(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// SubmitInterview validates and stores one immutable answer set.
func (h *InterviewHandler) SubmitInterview(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	var req SubmitInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	response, err := h.interviewService.Submit(c.Request.Context(), userID, req.SessionID, req.Answers)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapResponseToDTO(response))
}

// GetResponses lists the caller's submitted interview responses.
func (h *InterviewHandler) GetResponses(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	responses, err := h.interviewService.ResponsesForUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	dtos := make([]ResponseDTO, 0, len(responses))
	for i := range responses {
		dtos = append(dtos, mapResponseToDTO(&responses[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

func mapResponseToDTO(response *domain.Response) ResponseDTO {
	return ResponseDTO{
		ID:        response.ID.Hex(),
		SessionID: response.SessionID,
		Answers:   response.Answers,
		CreatedAt: response.CreatedAt,
	}
}
