package main

import "github.com/prensa-cms/prensa/cmd/prensa/commands"

func main() {
	commands.Execute()
}
