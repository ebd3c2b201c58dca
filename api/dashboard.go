package api

import (
	"net/http"

	"github.com/Domenick1991/guestportal/internal/pkg/response"
	"github.com/Domenick1991/guestportal/internal/service/dashboard"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service dashboard.DashboardUseCase
}

func NewDashboardHandler(service dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/:hotelId", h.stats)
}

func (h *DashboardHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("hotelId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboardResponse{
		Hotel:                 stats.Hotel,
		TodaysArrivals:        stats.TodaysArrivals,
		TodaysDepartures:      stats.TodaysDepartures,
		RevenueThisMonthCents: stats.RevenueThisMonthCents,
		NewBookingsThisMonth:  stats.NewBookingsThisMonth,
		RecentActivities:      toBookingResponses(stats.RecentActivities),
	})
}
