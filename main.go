package main

import "github.com/BuildModelHQ/keel/cmd"

func main() {
	cmd.Execute()
}
