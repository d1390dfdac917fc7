package main

import (
	"flag"
	"log"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Resets a user's password directly in the database. Meant for operators who
// locked themselves out; invalidates the user's active session.
func main() {
	email := flag.String("email", "admin@example.com", "user email")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("User %s not found: %v", *email, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"password":      string(hashed),
		"token_version": "",
	}).Error; err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
