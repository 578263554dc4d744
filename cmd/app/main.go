package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Credentials usually live in a .env file during development.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
