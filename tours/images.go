package tours

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"tourhub/db"
	"tourhub/rdx"
	"tourhub/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var tourpicUploadPath = "./static/tourpic"

const thumbWidth = 320

func saveTourImage(file *multipart.FileHeader, tourID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("cannot open image: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("invalid image: %w", err)
	}

	name := fmt.Sprintf("%s-%s.jpg", tourID, utils.GenerateRandomString(8))

	if err := os.MkdirAll(filepath.Join(tourpicUploadPath, "thumb"), 0755); err != nil {
		return "", fmt.Errorf("cannot create upload dir: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(tourpicUploadPath, name), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("saving image failed: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(tourpicUploadPath, "thumb", name), imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("saving thumbnail failed: %w", err)
	}

	return name, nil
}

// UploadTourImages accepts multipart "images" files, stores them with
// thumbnails and appends the filenames to the tour's image list.
func UploadTourImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := db.TourCollection.FindOne(ctx, bson.M{"tourid": tourID}).Err()
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No image files uploaded")
		return
	}

	var names []string
	for _, file := range files {
		name, err := saveTourImage(file, tourID)
		if err != nil {
			log.Printf("Image upload for tour %s failed: %v", tourID, err)
			utils.RespondWithError(w, http.StatusBadRequest, "Failed to process image")
			return
		}
		names = append(names, name)
	}

	_, err = db.TourCollection.UpdateOne(ctx,
		bson.M{"tourid": tourID},
		bson.M{"$push": bson.M{"image": bson.M{"$each": names}}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update tour images")
		return
	}

	if err := rdx.RdxDel(tourCacheKey(tourID)); err != nil {
		log.Printf("Failed to invalidate tour cache %s: %v", tourID, err)
	}

	utils.RespondWithData(w, http.StatusOK, names)
}
