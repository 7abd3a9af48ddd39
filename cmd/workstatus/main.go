package main

import "github.com/thedreamteamconsultancy/workstatus/internal/cli"

func main() {
	cli.Execute()
}
