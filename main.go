package main

import "github.com/maximthomas/gradify/cmd"

func main() {
	cmd.Execute()
}
