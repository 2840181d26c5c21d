package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/airplanned/booking-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "", "admin password to hash for ADMIN_PASSWORD_HASH")
	cost := flag.Int("cost", bcrypt.DefaultCost+2, "bcrypt cost for the admin password hash")
	flag.Parse()

	fmt.Println("===========================================")
	fmt.Println("Secret generator for the booking service")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateSessionSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secret)

	if *password != "" {
		if len(*password) < 12 {
			log.Fatal("Admin password must be at least 12 characters")
		}
		hash, err := utils.HashPassword(*password, *cost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
	} else {
		fmt.Println()
		fmt.Println("Run with -password to also print an ADMIN_PASSWORD_HASH.")
	}

	fmt.Println()
	fmt.Println("Keep these values out of version control.")
}
