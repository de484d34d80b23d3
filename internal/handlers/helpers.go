package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/report"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrSessionExpired if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", apperrors.ErrSessionExpired
	}
	return userID, nil
}

// parsePeriod reads the month and tz query parameters. A missing month selects
// the current month in the resolved zone; a missing tz selects fallback.
func parsePeriod(c *gin.Context, fallback *time.Location) (int, time.Month, *time.Location, error) {
	loc := fallback
	if tz := c.Query("tz"); tz != "" {
		var err error
		if loc, err = config.LoadLocation(tz); err != nil {
			return 0, 0, nil, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "Unknown time zone "+tz)
		}
	}
	if loc == nil {
		loc = time.Local
	}

	month := c.Query("month")
	if month == "" {
		y, m := report.CurrentMonth(time.Now(), loc)
		return y, m, loc, nil
	}
	y, m, err := report.ParseMonth(month)
	if err != nil {
		return 0, 0, nil, apperrors.ErrInvalidPeriod
	}
	return y, m, loc, nil
}

// respondWithError records err on the context and stops the chain;
// middleware.ErrorHandler renders it.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
