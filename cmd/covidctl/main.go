package main

import (
	"os"

	"github.com/lewisaaronpaul/covid-dashboard/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
