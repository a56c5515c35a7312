package api

import (
	"errors"
	"io"
	"net/http"

	reqdto "gym-booking/internal/handler/dto/request"
	resdto "gym-booking/internal/handler/dto/response"
	"gym-booking/internal/handler/httperr"
	"gym-booking/internal/handler/middleware"
	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Book a gym session
// @Description Admits or declines a booking. Declines are reported with ok=false and a code, always with status 200.
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Employee-Id header string false "Employee id; overrides employeeId in the body"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 200 {object} resdto.AdmissionResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	// an empty body is allowed when the employee id travels in the header
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(err)
		c.JSON(http.StatusOK, &resdto.AdmissionResponse{
			Error: "Invalid request body",
			Code:  string(commands.CodeValidation),
		})
		return
	}

	result := h.cmds.CreateBooking(c.Request.Context(), req.ToCommand(c.GetHeader(middleware.EmployeeIDHeader)))
	c.JSON(http.StatusOK, resdto.FromAdmissionResult(result))
}

// @Summary Daily roster
// @Description List bookings for one day, optionally filtered by approval status
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param date query string true "Booking date (YYYY-MM-DD)"
// @Param approvalStatus query string false "PENDING, APPROVED or REJECTED"
// @Param activeOnly query bool false "Only BOOKED and CHECKIN rows"
// @Success 200 {array} resdto.RosterEntryResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) DailyRoster(c *gin.Context) {
	var query reqdto.RosterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	entries, err := h.q.DailyRoster(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidRosterFilter) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load roster", nil)
		return
	}

	res, err := resdto.FromRoster(entries)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load roster", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
