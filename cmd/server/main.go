package main

import "github.com/planetcare/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
