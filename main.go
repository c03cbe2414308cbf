package main

import (
	"log"

	"schooladmin_backend/internals/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}
