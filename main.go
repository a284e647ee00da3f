package main

import (
	"log"

	"github.com/amanzi/watershed-workflow/cmd"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err.Error())
	}
}
