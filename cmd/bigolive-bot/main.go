package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; real deployments use environment variables.
	_ = godotenv.Load()

	Execute()
}
