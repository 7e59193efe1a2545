package main

import "github.com/DrSkyle/chronograph/cmd/chronograph/commands"

func main() {
	commands.Execute()
}
