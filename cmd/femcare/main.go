package main

import (
	"log"

	"github.com/terraincognita07/femcare/internal/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("femcare: %v", err)
	}
}
