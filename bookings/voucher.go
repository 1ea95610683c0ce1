package bookings

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"tourhub/db"
	"tourhub/globals"
	"tourhub/models"
	"tourhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// voucherQRPayload returns bookingid|tourid|timestamp|signature so the
// voucher can be verified offline against the signing secret.
func voucherQRPayload(bookingID, tourID string) string {
	data := fmt.Sprintf("%s|%s|%d", bookingID, tourID, time.Now().Unix())

	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// BookingVoucher renders a booking confirmation as a downloadable PDF.
func BookingVoucher(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
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
		utils.RespondWithError(w, http.StatusForbidden, "You may only download your own vouchers")
		return
	}

	tourName := "Tour details unavailable"
	startDate := ""
	var tour models.Tour
	if err := db.TourCollection.FindOne(ctx, bson.M{"tourid": booking.TourID}).Decode(&tour); err == nil {
		tourName = tour.Name
		startDate = tour.StartDate.Format("2006-01-02")
	}

	qrPNG, err := qrcode.Encode(voucherQRPayload(booking.BookingID, booking.TourID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Voucher")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking ID: %s", booking.BookingID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Tour: %s", tourName))
	pdf.Ln(8)
	if startDate != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Start date: %s", startDate))
		pdf.Ln(8)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Customer: %s", booking.Customer.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Passengers: %d", booking.Passengers))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total price: %.2f", booking.TotalPrice))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", booking.Status))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=voucher-"+booking.BookingID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
