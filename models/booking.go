package models

import "time"

type Customer struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

type Booking struct {
	BookingID  string    `json:"bookingid" bson:"bookingid"`
	TourID     string    `json:"tourid" bson:"tourid"`
	Customer   Customer  `json:"customer" bson:"customer"`
	Passengers int       `json:"passengers" bson:"passengers"`
	TotalPrice float64   `json:"totalPrice" bson:"totalPrice"`
	Status     string    `json:"status" bson:"status"` // pending, confirmed, cancelled, completed
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
