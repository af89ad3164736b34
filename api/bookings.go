package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type BookingHandler struct {
	service    booking.BookingUseCase
	flightCode string
}

type bookingResponse struct {
	CustomerID   int    `json:"customer_id"`
	TicketNumber string `json:"ticket_number"`
	SeatNumber   int    `json:"seat_number"`
	WindowSeat   bool   `json:"window_seat"`
}

func newBookingResponse(info domain.BookingInfo) bookingResponse {
	return bookingResponse{
		CustomerID:   info.CustomerID,
		TicketNumber: info.TicketNumber,
		SeatNumber:   info.SeatNumber,
		WindowSeat:   info.WindowSeat,
	}
}

func NewBookingHandler(service booking.BookingUseCase, flightCode string) *BookingHandler {
	return &BookingHandler{service: service, flightCode: flightCode}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:ticket", h.get)
	router.DELETE("/:ticket", h.cancel)
	router.GET("/:ticket/qr", h.qr)
}

func (h *BookingHandler) create(c *gin.Context) {
	b, err := h.service.CreateBooking(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(b.Info()))
}

func (h *BookingHandler) get(c *gin.Context) {
	info, err := h.service.QueryBooking(c.Request.Context(), c.Param("ticket"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(*info))
}

// cancel matches by ticket suffix, so the returned booking may carry a
// different customer prefix than the one in the path.
func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("ticket"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(b.Info()))
}

func (h *BookingHandler) qr(c *gin.Context) {
	info, err := h.service.QueryBooking(c.Request.Context(), c.Param("ticket"))
	if err != nil {
		writeError(c, err)
		return
	}

	png, err := qrcode.Encode(BoardingPassPayload(h.flightCode, *info), qrcode.Medium, qrSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// BoardingPassPayload is the text encoded in a boarding-pass QR code.
func BoardingPassPayload(flightCode string, info domain.BookingInfo) string {
	return fmt.Sprintf("FLIGHT:%s;TICKET:%s;CUSTOMER:%d;SEAT:%d;WINDOW:%t",
		flightCode, info.TicketNumber, info.CustomerID, info.SeatNumber, info.WindowSeat)
}
