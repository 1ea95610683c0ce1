package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tourhub/db"
	"tourhub/models"
	"tourhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func genID() string {
	return "b" + utils.GenerateRandomString(14)
}

func computeTotalPrice(amount float64, passengers int) float64 {
	return amount * float64(passengers)
}

// bookingView is a booking with its tour document embedded.
type bookingView struct {
	models.Booking
	Tour any `json:"tour"`
}

// withTour embeds the referenced tour. A booking whose tour has since
// been deleted still renders, with a placeholder entry.
func withTour(ctx context.Context, b models.Booking) bookingView {
	var tour models.Tour
	err := db.TourCollection.FindOne(ctx, bson.M{"tourid": b.TourID}).Decode(&tour)
	if err != nil {
		return bookingView{Booking: b, Tour: utils.M{
			"tourid": b.TourID,
			"name":   "Tour not found",
			"info":   "Tour details are no longer available",
		}}
	}
	return bookingView{Booking: b, Tour: tour}
}

func findBookings(ctx context.Context, filter bson.M) ([]bookingView, error) {
	cur, err := db.BookingCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	views := []bookingView{}
	for cur.Next(ctx) {
		var b models.Booking
		if err := cur.Decode(&b); err != nil {
			continue
		}
		views = append(views, withTour(ctx, b))
	}
	return views, cur.Err()
}

func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Tour       string `json:"tour"`
		Passengers int    `json:"passengers"`
		Customer   struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		} `json:"customer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Passengers == 0 {
		input.Passengers = 1
	}
	if input.Passengers < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Passengers must be at least 1")
		return
	}
	if input.Customer.Name == "" || input.Customer.Phone == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Customer name and phone are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	err := db.TourCollection.FindOne(ctx, bson.M{"tourid": input.Tour}).Decode(&tour)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	booking := models.Booking{
		BookingID: genID(),
		TourID:    tour.TourID,
		Customer: models.Customer{
			Name: input.Customer.Name,
			// Never trusted from the body
			Email: utils.GetEmailFromRequest(r),
			Phone: input.Customer.Phone,
		},
		Passengers: input.Passengers,
		TotalPrice: computeTotalPrice(tour.Price.Amount, input.Passengers),
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}

	if _, err := db.BookingCollection.InsertOne(ctx, booking); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, bookingView{Booking: booking, Tour: tour})
}

func GetMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := utils.GetEmailFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := findBookings(ctx, bson.M{"customer.email": email})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status": "success",
		"count":  len(views),
		"data":   views,
	})
}

func GetBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	views, err := findBookings(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status": "success",
		"count":  len(views),
		"data":   views,
	})
}

// GetBooking also serves /api/bookings/my-bookings: httprouter cannot
// register a static segment alongside the :id wildcard.
func GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	if bookingID == "my-bookings" {
		GetMyBookings(w, r, ps)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := db.BookingCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !utils.IsAdminRequest(r) && booking.Customer.Email != utils.GetEmailFromRequest(r) {
		utils.RespondWithError(w, http.StatusForbidden, "You may only view your own bookings")
		return
	}

	utils.RespondWithData(w, http.StatusOK, withTour(ctx, booking))
}

func UpdateBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Status is the only field a client may update
	newStatus, ok := body["status"].(string)
	if !ok || len(body) != 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Only the booking status may be updated")
		return
	}
	if !ValidStatus(newStatus) {
		utils.RespondWithError(w, http.StatusBadRequest,
			"Invalid status. Allowed: pending, confirmed, cancelled, completed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := db.BookingCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !CanTransition(booking.Status, newStatus) {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot change status from %s to %s", booking.Status, newStatus))
		return
	}

	_, err = db.BookingCollection.UpdateOne(ctx,
		bson.M{"bookingid": bookingID},
		bson.M{"$set": bson.M{"status": newStatus}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
		return
	}

	booking.Status = newStatus
	utils.RespondWithData(w, http.StatusOK, withTour(ctx, booking))
}

func DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.BookingCollection.DeleteOne(ctx, bson.M{"bookingid": bookingID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Booking deleted")
}
