package models

import "time"

type Destination struct {
	City   string `json:"city" bson:"city"`
	Nights int    `json:"nights" bson:"nights"`
}

type Price struct {
	Amount    float64 `json:"amount" bson:"amount"`
	Currency  string  `json:"currency" bson:"currency"`
	PerPerson bool    `json:"perPerson" bson:"perPerson"`
}

type Hotel struct {
	Name  string `json:"name" bson:"name"`
	Stars int    `json:"stars" bson:"stars"` // 1-5
	City  string `json:"city" bson:"city"`
}

type Tour struct {
	TourID       string        `json:"tourid" bson:"tourid"`
	Name         string        `json:"name" bson:"name"`
	Description  string        `json:"description" bson:"description"`
	Image        []string      `json:"image" bson:"image"`
	StartDate    time.Time     `json:"startDate" bson:"startDate"`
	Duration     int           `json:"duration" bson:"duration"` // nights
	Destinations []Destination `json:"destinations" bson:"destinations"`
	Price        Price         `json:"price" bson:"price"`
	Included     []string      `json:"included" bson:"included"`
	Hotels       []Hotel       `json:"hotels" bson:"hotels"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
}
