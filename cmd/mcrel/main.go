package main

import "github.com/materials-commons/mcrel/cmd/mcrel/cmd"

func main() {
	cmd.Execute()
}
