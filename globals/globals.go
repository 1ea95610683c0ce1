package globals

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JwtSecret   []byte
	AdminSecret string
)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const EmailKey ContextKey = "email"
const AdminKey ContextKey = "isAdmin"

var Ctx = context.Background()

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev_secret_change_me"
		log.Println("JWT_SECRET not set; using insecure development secret")
	}
	JwtSecret = []byte(secret)

	// Empty disables admin self-registration entirely.
	AdminSecret = os.Getenv("ADMIN_SECRET")
}
