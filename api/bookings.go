package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/pkg/response"
	"github.com/Domenick1991/guestportal/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service       booking.BookingUseCase
	publicBaseURL string
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type createBookingResponse struct {
	Booking  bookingResponse `json:"booking"`
	GuestURL string          `json:"guestUrl"`
}

// NewBookingHandler serves the hotelier booking routes. publicBaseURL prefixes
// the guest links handed out on create.
func NewBookingHandler(service booking.BookingUseCase, publicBaseURL string) *BookingHandler {
	return &BookingHandler{service: service, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/:hotelId/bookings", h.list)
	router.POST("/:hotelId/bookings/create-booking", h.create)
	router.GET("/:hotelId/bookings/:bookingId", h.get)
	router.GET("/:hotelId/bookings/:bookingId/edit", h.editForm)
	router.POST("/:hotelId/bookings/:bookingId/edit", h.update)
	router.POST("/:hotelId/bookings/:bookingId/status", h.changeStatus)
	router.DELETE("/:hotelId/bookings/:bookingId", h.delete)
}

func (h *BookingHandler) guestURL(token string) string {
	return h.publicBaseURL + "/guest/" + token
}

func (h *BookingHandler) list(c *gin.Context) {
	filter := domain.BookingFilter{Query: c.Query("query")}
	if status := c.Query("status"); status != "" && status != "all" {
		parsed, ok := domain.ParseBookingStatus(status)
		if !ok {
			badRequest(c, "unknown status filter")
			return
		}
		filter.Status = parsed
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), c.Param("hotelId"), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponses(bookings))
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.BookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), c.Param("hotelId"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	guestURL := h.guestURL(created.Token)
	response.Success(c, http.StatusCreated, createBookingResponse{
		Booking:  toBookingResponse(created, guestURL),
		GuestURL: guestURL,
	})
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("hotelId"), c.Param("bookingId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b, h.guestURL(b.Token)))
}

func (h *BookingHandler) editForm(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("hotelId"), c.Param("bookingId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingForm(b))
}

func (h *BookingHandler) update(c *gin.Context) {
	var req booking.BookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	updated, err := h.service.UpdateBooking(c.Request.Context(), c.Param("bookingId"), c.Param("hotelId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(updated, h.guestURL(updated.Token)))
}

func (h *BookingHandler) changeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	status, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Validation failed",
			map[string]string{"status": "is not a known booking status"})
		return
	}

	updated, err := h.service.ChangeStatus(c.Request.Context(), c.Param("bookingId"), c.Param("hotelId"), status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(updated, h.guestURL(updated.Token)))
}

func (h *BookingHandler) delete(c *gin.Context) {
	if err := h.service.DeleteBooking(c.Request.Context(), c.Param("bookingId"), c.Param("hotelId")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
