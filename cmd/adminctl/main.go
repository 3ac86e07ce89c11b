package main

import (
	"log"
	"os"
)

var tool adminctl

func main() {
	tool.loadApp()
	if err := tool.app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
