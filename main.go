// Main entry point for the application
package main

import (
	"log"
	"os"

	"photoreader/internal/ui"
)

func main() {
	log.SetPrefix("PhotoReader ")

	var opts ui.Options
	if len(os.Args) > 1 {
		opts.Path = os.Args[1]
	}
	if err := ui.CreateApplication(opts); err != nil {
		log.Fatal(err)
	}
}
