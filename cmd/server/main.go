package main

import (
	"os"
)

// @title Fitness Planner API
// @version 1.0
// @description API for coaches assigning dated workout plans and clients logging their results.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
