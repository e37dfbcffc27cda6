package main

import (
	"os"

	"shottys-backend/cmd/markov-sync/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
