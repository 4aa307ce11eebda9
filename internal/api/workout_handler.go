package api

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/service"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type TemplateExerciseRequest struct {
	Name             string                  `json:"name" binding:"required"`
	PrescriptionType domain.PrescriptionType `json:"prescriptionType" binding:"omitempty,oneof=reps time"`
	Sets             int                     `json:"sets" binding:"omitempty,min=1"`
	Reps             int                     `json:"reps" binding:"omitempty,min=1"`
	Seconds          int                     `json:"seconds" binding:"omitempty,min=1"`
	RestSeconds      int                     `json:"restSeconds" binding:"omitempty,min=0"`
	MediaID          string                  `json:"mediaId"`
}

type TemplateRequest struct {
	Name      string                    `json:"name" binding:"required"`
	Notes     string                    `json:"notes"`
	Exercises []TemplateExerciseRequest `json:"exercises"`
}

type CompletionRequest struct {
	Completed bool `json:"completed"`
}

type FinishSessionRequest struct {
	DayNote string `json:"dayNote"`
}

// --- Template Handlers ---

func (h *WorkoutHandler) CreateTemplate(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	template, err := templateFromRequest(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.workoutService.CreateTemplate(c.Request.Context(), userID, template)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *WorkoutHandler) GetTemplate(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "templateId")
	if !ok {
		return
	}

	template, err := h.workoutService.GetTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// ListTemplates returns templates with their derived status.
func (h *WorkoutHandler) ListTemplates(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	summaries, err := h.workoutService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *WorkoutHandler) UpdateTemplate(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "templateId")
	if !ok {
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	template, err := templateFromRequest(&req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	template.ID = templateID

	updated, err := h.workoutService.UpdateTemplate(c.Request.Context(), userID, template)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *WorkoutHandler) DeleteTemplate(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "templateId")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteTemplate(c.Request.Context(), userID, templateID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Session Handlers ---

func (h *WorkoutHandler) StartSession(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "templateId")
	if !ok {
		return
	}

	session, err := h.workoutService.StartSession(c.Request.Context(), userID, templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *WorkoutHandler) GetSession(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	session, err := h.workoutService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetExerciseCompletion toggles one exercise on the session snapshot and
// returns the session with its recomputed completion percentage.
func (h *WorkoutHandler) SetExerciseCompletion(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.workoutService.SetExerciseCompletion(c.Request.Context(), userID, sessionID, exerciseID, req.Completed)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *WorkoutHandler) FinishSession(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	var req FinishSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.workoutService.FinishSession(c.Request.Context(), userID, sessionID, req.DayNote)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *WorkoutHandler) ResetSession(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	session, err := h.workoutService.ResetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// --- Calendar Handlers ---

// CalendarMonth returns finished sessions grouped by day for ?year=&month=.
func (h *WorkoutHandler) CalendarMonth(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'year' must be a number")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'month' must be a number")
		return
	}

	days, err := h.workoutService.CalendarMonth(c.Request.Context(), userID, year, month)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// CalendarDay returns finished sessions for one date (path param YYYY-MM-DD).
func (h *WorkoutHandler) CalendarDay(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		return
	}

	sessions, err := h.workoutService.CalendarDaySessions(c.Request.Context(), userID, date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// --- Mapping Helpers ---

func templateFromRequest(req *TemplateRequest) (*domain.WorkoutTemplate, error) {
	exercises := make([]domain.TemplateExercise, 0, len(req.Exercises))
	for _, ex := range req.Exercises {
		exercise := domain.TemplateExercise{
			Name:             ex.Name,
			PrescriptionType: ex.PrescriptionType,
			Sets:             ex.Sets,
			Reps:             ex.Reps,
			Seconds:          ex.Seconds,
			RestSeconds:      ex.RestSeconds,
		}
		if ex.MediaID != "" {
			mediaID, err := primitive.ObjectIDFromHex(ex.MediaID)
			if err != nil {
				return nil, fmt.Errorf("invalid mediaId for exercise '%s'", ex.Name)
			}
			exercise.MediaID = &mediaID
		}
		exercises = append(exercises, exercise)
	}
	return &domain.WorkoutTemplate{
		Name:      req.Name,
		Notes:     req.Notes,
		Exercises: exercises,
	}, nil
}
