package api

import (
	"net/http"

	"github.com/Domenick1991/guestportal/internal/pkg/response"
	"github.com/Domenick1991/guestportal/internal/service/hotels"
	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	service hotels.HotelUseCase
}

func NewHotelHandler(service hotels.HotelUseCase) *HotelHandler {
	return &HotelHandler{service: service}
}

func (h *HotelHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:hotelId", h.get)
}

func (h *HotelHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

func (h *HotelHandler) get(c *gin.Context) {
	hotel, err := h.service.GetByID(c.Request.Context(), c.Param("hotelId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hotel)
}
