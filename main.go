package main

import (
	"log"

	"github.com/wavelength/matchgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
