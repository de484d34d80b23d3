package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/export"
	"expensetracker/internal/report"
	"expensetracker/internal/services"
)

// ReportHandler serves aggregated views and exports of the user's transactions.
type ReportHandler struct {
	expenseService services.ExpenseServicer
	location       *time.Location
}

// NewReportHandler creates a new ReportHandler. Months are evaluated in loc
// unless a request names another zone.
func NewReportHandler(expenseService services.ExpenseServicer, loc *time.Location) *ReportHandler {
	return &ReportHandler{expenseService: expenseService, location: loc}
}

// SummaryResponse wraps the all-time report.
type SummaryResponse struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Data    report.Summary `json:"data"`
}

// MonthResponse wraps a month report.
type MonthResponse struct {
	Message string             `json:"message"`
	Success bool               `json:"success"`
	Data    report.MonthReport `json:"data"`
}

// GetSummary returns the all-time totals
// @Summary     All-time summary
// @Description Totals, income split and per-category net amounts over every transaction
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SummaryResponse "Summary"
// @Failure     403 {object} ErrorResponse "Session expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.expenseService.Summary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Message: "Fetched summary successfully", Success: true, Data: summary})
}

// GetMonthlySummary returns the report for one month
// @Summary     Monthly summary
// @Description Totals and expense breakdown for a calendar month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month as YYYY-MM, defaults to the current month"
// @Param       tz    query string false "IANA time zone used to evaluate the month"
// @Success     200 {object} MonthResponse "Month report"
// @Failure     400 {object} ErrorResponse "Invalid month or time zone"
// @Failure     403 {object} ErrorResponse "Session expired"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary/monthly [get]
func (h *ReportHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, month, loc, err := parsePeriod(c, h.location)
	if err != nil {
		respondWithError(c, err)
		return
	}

	r, err := h.expenseService.MonthReport(userID, year, month, loc)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Message: "Fetched monthly summary successfully", Success: true, Data: r})
}

// ExportMonth downloads a month of transactions
// @Summary     Export a month
// @Description Download the transactions of a calendar month as CSV or XLSX
// @Tags        reports
// @Produce     text/csv
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       month  query string false "Month as YYYY-MM, defaults to the current month"
// @Param       format query string false "csv (default) or xlsx"
// @Param       tz     query string false "IANA time zone used to evaluate the month"
// @Success     200 {file} file "Export file"
// @Failure     400 {object} ErrorResponse "Invalid month, zone or format"
// @Failure     403 {object} ErrorResponse "Session expired"
// @Failure     404 {object} ErrorResponse "No transactions in the month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/export [get]
func (h *ReportHandler) ExportMonth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	year, month, loc, err := parsePeriod(c, h.location)
	if err != nil {
		respondWithError(c, err)
		return
	}

	r, err := h.expenseService.MonthReport(userID, year, month, loc)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if len(r.Transactions) == 0 {
		respondWithError(c, apperrors.ErrNoTransactions)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, r.Transactions, loc); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.FileName(year, month, format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
