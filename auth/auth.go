package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tourhub/db"
	"tourhub/globals"
	"tourhub/middleware"
	"tourhub/models"
	"tourhub/rdx"
	"tourhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// sessionHash tracks the latest token issued per user. It is bookkeeping
// only: Authenticate does not consult it, so logout clears the cookie but
// cannot revoke a token the client kept hold of before its TTL runs out.
const sessionHash = "sessions"

func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		AdminSecret string `json:"adminSecret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if !utils.ValidateEmail(input.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Password is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Check if email is already taken
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "Email already in use")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	isAdmin := globals.AdminSecret != "" && input.AdminSecret == globals.AdminSecret
	role := "user"
	if isAdmin {
		role = "admin"
	}

	user := models.User{
		UserID:    utils.GetUUID(),
		Email:     input.Email,
		Password:  string(hashedPassword),
		Role:      role,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		// the unique email index catches inserts that race past the pre-check
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Email already in use")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	tokenString, err := generateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	setTokenCookie(w, tokenString)

	if err := rdx.RdxHset(sessionHash, user.UserID, tokenString); err != nil {
		log.Printf("Failed to cache session: %v", err)
	}

	utils.RespondWithData(w, http.StatusCreated, user.PublicFields())
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if !utils.ValidateEmail(input.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Same message for unknown email and wrong password
	var storedUser models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := generateToken(storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	setTokenCookie(w, tokenString)

	if err := rdx.RdxHset(sessionHash, storedUser.UserID, tokenString); err != nil {
		log.Printf("Failed to cache session: %v", err)
	}

	utils.RespondWithData(w, http.StatusOK, storedUser.PublicFields())
}

func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if tokenString := middleware.TokenFromRequest(r); tokenString != "" {
		if claims, err := middleware.ParseToken(tokenString); err == nil {
			if _, err := rdx.RdxHdel(sessionHash, claims.UserID); err != nil {
				log.Printf("Failed to remove session: %v", err)
			}
		}
	}

	clearTokenCookie(w)
	utils.RespondWithMessage(w, http.StatusOK, "Logged out")
}

func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithData(w, http.StatusOK, user.PublicFields())
}

func UpdatePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.NewPassword == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "New password is required")
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"password": string(hashedPassword), "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Password updated")
}
