package tours

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tourhub/db"
	"tourhub/models"
	"tourhub/rdx"
	"tourhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tourCacheTTL = 10 * time.Minute

func tourCacheKey(id string) string { return "tour:" + id }

// tourInput mirrors models.Tour but keeps perPerson optional so an
// omitted field defaults to true rather than false.
type tourInput struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Image        []string             `json:"image"`
	StartDate    time.Time            `json:"startDate"`
	Duration     int                  `json:"duration"`
	Destinations []models.Destination `json:"destinations"`
	Price        struct {
		Amount    float64 `json:"amount"`
		Currency  string  `json:"currency"`
		PerPerson *bool   `json:"perPerson"`
	} `json:"price"`
	Included []string       `json:"included"`
	Hotels   []models.Hotel `json:"hotels"`
}

func (in *tourInput) toTour() models.Tour {
	perPerson := true
	if in.Price.PerPerson != nil {
		perPerson = *in.Price.PerPerson
	}
	currency := in.Price.Currency
	if currency == "" {
		currency = "USD"
	}
	image := in.Image
	if image == nil {
		image = []string{}
	}
	included := in.Included
	if included == nil {
		included = []string{}
	}
	return models.Tour{
		Name:         in.Name,
		Description:  in.Description,
		Image:        image,
		StartDate:    in.StartDate,
		Duration:     in.Duration,
		Destinations: in.Destinations,
		Price: models.Price{
			Amount:    in.Price.Amount,
			Currency:  currency,
			PerPerson: perPerson,
		},
		Included: included,
		Hotels:   in.Hotels,
	}
}

func validateTour(t models.Tour) error {
	if t.Name == "" {
		return errors.New("name is required")
	}
	if t.Description == "" {
		return errors.New("description is required")
	}
	if t.StartDate.IsZero() {
		return errors.New("startDate is required")
	}
	if t.Duration < 1 {
		return errors.New("duration must be at least 1 night")
	}
	for _, d := range t.Destinations {
		if d.City == "" {
			return errors.New("destination city is required")
		}
		if d.Nights < 1 {
			return errors.New("destination nights must be at least 1")
		}
	}
	if t.Price.Amount <= 0 {
		return errors.New("price amount must be positive")
	}
	for _, h := range t.Hotels {
		if h.Name == "" || h.City == "" {
			return errors.New("hotel name and city are required")
		}
		if h.Stars < 1 || h.Stars > 5 {
			return errors.New("hotel stars must be between 1 and 5")
		}
	}
	return nil
}

func GetTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.TourCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"startDate": 1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tours")
		return
	}
	defer cur.Close(ctx)

	tours := []models.Tour{}
	if err := cur.All(ctx, &tours); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode tours")
		return
	}

	utils.RespondWithData(w, http.StatusOK, tours)
}

func GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("id")

	if cached, err := rdx.RdxGet(tourCacheKey(tourID)); err == nil && cached != "" {
		var tour models.Tour
		if err := json.Unmarshal([]byte(cached), &tour); err == nil {
			utils.RespondWithData(w, http.StatusOK, tour)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	err := db.TourCollection.FindOne(ctx, bson.M{"tourid": tourID}).Decode(&tour)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if data, err := json.Marshal(tour); err == nil {
		if err := rdx.SetWithExpiry(tourCacheKey(tourID), string(data), tourCacheTTL); err != nil {
			log.Printf("Failed to cache tour %s: %v", tourID, err)
		}
	}

	utils.RespondWithData(w, http.StatusOK, tour)
}

func CreateTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input tourInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	tour := input.toTour()
	if err := validateTour(tour); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tour.TourID = "t" + utils.GenerateRandomString(12)
	tour.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.TourCollection.InsertOne(ctx, tour); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create tour")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, tour)
}

func EditTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("id")

	var input tourInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	tour := input.toTour()
	if err := validateTour(tour); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":         tour.Name,
		"description":  tour.Description,
		"image":        tour.Image,
		"startDate":    tour.StartDate,
		"duration":     tour.Duration,
		"destinations": tour.Destinations,
		"price":        tour.Price,
		"included":     tour.Included,
		"hotels":       tour.Hotels,
	}}

	res := db.TourCollection.FindOneAndUpdate(ctx,
		bson.M{"tourid": tourID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Tour
	err := res.Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := rdx.RdxDel(tourCacheKey(tourID)); err != nil {
		log.Printf("Failed to invalidate tour cache %s: %v", tourID, err)
	}

	utils.RespondWithData(w, http.StatusOK, updated)
}

func DeleteTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.TourCollection.DeleteOne(ctx, bson.M{"tourid": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	if err := rdx.RdxDel(tourCacheKey(tourID)); err != nil {
		log.Printf("Failed to invalidate tour cache %s: %v", tourID, err)
	}

	utils.RespondWithMessage(w, http.StatusOK, "Tour deleted")
}
