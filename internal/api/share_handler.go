package api

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/service"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ShareHandler holds the share service dependency. It serves both the
// authenticated issue/revoke endpoints and the public token surface.
type ShareHandler struct {
	shareService service.ShareService
	baseURL      string
}

// NewShareHandler creates a new ShareHandler. baseURL is prepended to issued
// tokens to build the link handed to clients.
func NewShareHandler(shareService service.ShareService, baseURL string) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// --- Request/Response Structs ---

type ShareLinkResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SharedSessionResponse struct {
	Valid   bool                   `json:"valid"`
	Reason  string                 `json:"reason,omitempty"`
	Session *domain.WorkoutSession `json:"session,omitempty"`
}

// --- Authenticated Handlers ---

// IssueShareLink creates a fresh share link for a session. Any previously
// issued link for the session stops working.
func (h *ShareHandler) IssueShareLink(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	token, raw, err := h.shareService.Issue(c.Request.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ShareLinkResponse{
		Token:     raw,
		URL:       fmt.Sprintf("%s/shared/%s", h.baseURL, raw),
		ExpiresAt: token.ExpiresAt,
	})
}

// RevokeShareLinks deletes all share links for a session.
func (h *ShareHandler) RevokeShareLinks(c *gin.Context) {
	userID, ok := requestingUserID(c)
	if !ok {
		return
	}
	sessionID, ok := pathObjectID(c, "sessionId")
	if !ok {
		return
	}

	if err := h.shareService.Revoke(c.Request.Context(), userID, sessionID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Public Handlers (no auth) ---

// GetSharedSession resolves a token and returns the shared session. Invalid
// and expired tokens get a 404 with a reason rather than a hard error, so
// the shared page can render a friendly message.
func (h *ShareHandler) GetSharedSession(c *gin.Context) {
	resolution, err := h.shareService.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !resolution.Valid {
		c.JSON(http.StatusNotFound, SharedSessionResponse{Valid: false, Reason: resolution.Reason})
		return
	}
	c.JSON(http.StatusOK, SharedSessionResponse{Valid: true, Session: resolution.Session})
}

// CheckOffSharedExercise toggles one exercise on the shared session via its
// token. This is the unauthenticated check-off surface.
func (h *ShareHandler) CheckOffSharedExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "exerciseId")
	if !ok {
		return
	}

	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.shareService.CheckOffByToken(c.Request.Context(), c.Param("token"), exerciseID, req.Completed)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
