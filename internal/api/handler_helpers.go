package api

import (
	"coachplan/fitness-app/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// requestingUserID pulls the authenticated caller's ID out of the context
// and parses it. Aborts the request itself on failure.
func requestingUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseHexID parses a hex string from a request body into an ObjectID.
func parseHexID(raw string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(raw)
}

// pathObjectID parses a path parameter as a Mongo ObjectID. Aborts with 400
// on failure.
func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+param+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// handleServiceError maps service-layer errors onto HTTP status codes. Every
// handler funnels unexpected errors through here so the mapping stays in one
// place.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var shapeErr *service.PlanShapeError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  validationErr.Message,
			"fields": validationErr.Fields,
		})
	case errors.As(err, &shapeErr):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":      "Generated plan failed validation",
			"violations": shapeErr.Violations,
		})
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrAccessDenied):
		abortWithError(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrSessionInProgress):
		abortWithError(c, http.StatusConflict, "A session for this template is already in progress")
	case errors.Is(err, service.ErrSessionFinished):
		abortWithError(c, http.StatusConflict, "Session is already finished")
	case errors.Is(err, service.ErrUpstreamTimeout):
		abortWithError(c, http.StatusGatewayTimeout, "Plan generation timed out")
	case errors.Is(err, service.ErrUpstreamFormat):
		abortWithError(c, http.StatusBadGateway, "Plan generation returned an unusable response")
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
