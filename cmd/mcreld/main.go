package main

import "github.com/materials-commons/mcrel/cmd/mcreld/cmd"

func main() {
	cmd.Execute()
}
