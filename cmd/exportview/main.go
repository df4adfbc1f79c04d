package main

import "github.com/emiliopalmerini/exportview/internal/cli"

func main() {
	cli.Execute()
}
