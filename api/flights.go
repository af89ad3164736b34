package api

import (
	"net/http"

	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/Domenick1991/flightseats/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
}

func NewFlightHandler(flights flights.FlightUseCase, bookings booking.BookingUseCase) *FlightHandler {
	return &FlightHandler{flights: flights, bookings: bookings}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.summary)
	router.GET("/window-tickets", h.windowTickets)
	router.GET("/cancellations", h.cancellations)
	router.POST("/reset", h.reset)
	router.POST("/save", h.save)
}

func (h *FlightHandler) summary(c *gin.Context) {
	summary, err := h.flights.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *FlightHandler) windowTickets(c *gin.Context) {
	tickets, err := h.flights.WindowSeatTickets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func (h *FlightHandler) cancellations(c *gin.Context) {
	log, err := h.flights.Cancellations(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancellations": log})
}

func (h *FlightHandler) reset(c *gin.Context) {
	if err := h.bookings.ResetFlight(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) save(c *gin.Context) {
	if err := h.bookings.Save(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}
