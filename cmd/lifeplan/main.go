package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local overrides (LIFEPLAN_ADDR, LIFEPLAN_DB, ...).
	_ = godotenv.Load()
	Execute()
}
