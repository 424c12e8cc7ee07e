package main

import (
	"github.com/Cyvadra/farewatch/cmd/commands"
)

func main() {
	commands.Execute()
}
