package main

import (
	"log"

	"github.com/anhnphe171575/SepCapstone-sub005/internal/api"
	"github.com/anhnphe171575/SepCapstone-sub005/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := api.Serve(cfg); err != nil {
		log.Fatal(err)
	}
}
