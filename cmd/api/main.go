package main

import (
	"context"
	"log"

	"github.com/nexashop/storefront/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("storefront api failed: %v", err)
	}
}
