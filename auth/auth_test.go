package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourhub/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ExistingEmail", func(mt *mtest.T) {
		db.UserCollection = mt.Coll
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tourdb.users", mtest.FirstBatch,
			bson.D{{Key: "email", Value: "dup@example.com"}}))

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"dup@example.com","password":"secret"}`))
		Register(w, r, nil)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "Email already in use")
	})

	// two concurrent registrations can both pass the pre-check; the unique
	// index rejects the second insert and the handler still answers 409
	mt.Run("DuplicateKeyOnInsert", func(mt *mtest.T) {
		db.UserCollection = mt.Coll
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "tourdb.users", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error collection: tourdb.users index: email_1",
			}),
		)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"dup@example.com","password":"secret"}`))
		Register(w, r, nil)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "Email already in use")
	})
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("UnknownEmailVsWrongPassword", func(mt *mtest.T) {
		db.UserCollection = mt.Coll

		hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
		require.NoError(mt, err)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "tourdb.users", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "tourdb.users", mtest.FirstBatch, bson.D{
				{Key: "userid", Value: "u-1"},
				{Key: "email", Value: "known@example.com"},
				{Key: "password", Value: string(hash)},
				{Key: "role", Value: "user"},
			}),
		)

		unknown := httptest.NewRecorder()
		Login(unknown, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"unknown@example.com","password":"whatever"}`)), nil)

		wrong := httptest.NewRecorder()
		Login(wrong, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"known@example.com","password":"wrong-password"}`)), nil)

		assert.Equal(mt, http.StatusUnauthorized, unknown.Code)
		assert.Equal(mt, http.StatusUnauthorized, wrong.Code)
		assert.Equal(mt, unknown.Body.String(), wrong.Body.String())
	})
}
