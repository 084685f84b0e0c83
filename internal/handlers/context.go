package handlers

import (
	"math"
	"strconv"

	"github.com/avdbp/bridgea-backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID extracts the authenticated user's ID from the JWT claims
// stored by the auth middleware. Returns NilObjectID when unauthenticated.
func currentUserID(c echo.Context) primitive.ObjectID {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// paginationParams reads page/limit query params with sane bounds
func paginationParams(c echo.Context) (page, limit int64) {
	p, _ := strconv.Atoi(c.QueryParam("page"))
	l, _ := strconv.Atoi(c.QueryParam("limit"))
	if p < 1 {
		p = 1
	}
	if l < 1 || l > 50 {
		l = 20
	}
	return int64(p), int64(l)
}

// paginationMeta builds the standard pagination envelope
func paginationMeta(page, limit, total int64) echo.Map {
	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}
