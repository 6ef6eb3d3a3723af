package main

import (
	"log"

	"github.com/MrSnakeDoc/chronos/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ chronos failed to initialize: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ chronos failed to start: %v", err)
	}
}
