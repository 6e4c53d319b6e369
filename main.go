package main

import (
	cmd "github.com/getfitted/fitted/cmd/fitted"
	"github.com/getfitted/fitted/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting fitted")
	cmd.Execute()
}
