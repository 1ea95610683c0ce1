package routes

import (
	"net/http"

	"tourhub/auth"
	"tourhub/bookings"
	"tourhub/middleware"
	"tourhub/ratelim"
	"tourhub/tours"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", auth.Logout)
	router.GET("/api/auth/profile", middleware.Authenticate(auth.GetProfile))
	router.PUT("/api/auth/update-password", middleware.Authenticate(auth.UpdatePassword))
}

func AddTourRoutes(router *httprouter.Router) {
	router.GET("/api/tours", tours.GetTours)
	router.GET("/api/tours/:id", tours.GetTour)
	router.POST("/api/tours", middleware.Authenticate(middleware.RequireAdmin(tours.CreateTour)))
	router.PUT("/api/tours/:id", middleware.Authenticate(middleware.RequireAdmin(tours.EditTour)))
	router.DELETE("/api/tours/:id", middleware.Authenticate(middleware.RequireAdmin(tours.DeleteTour)))
	router.POST("/api/tours/:id/images", middleware.Authenticate(middleware.RequireAdmin(tours.UploadTourImages)))

	router.ServeFiles("/static/tourpic/*filepath", http.Dir("static/tourpic"))
}

func AddBookingRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", ratelim.RateLimit(middleware.Authenticate(bookings.CreateBooking)))
	// GET /api/bookings/my-bookings is dispatched inside GetBooking
	router.GET("/api/bookings/:id", middleware.Authenticate(bookings.GetBooking))
	router.GET("/api/bookings/:id/voucher", middleware.Authenticate(bookings.BookingVoucher))

	router.GET("/api/bookings", middleware.Authenticate(middleware.RequireAdmin(bookings.GetBookings)))
	router.PUT("/api/bookings/:id/status", middleware.Authenticate(middleware.RequireAdmin(bookings.UpdateBookingStatus)))
	router.DELETE("/api/bookings/:id", middleware.Authenticate(middleware.RequireAdmin(bookings.DeleteBooking)))
}
