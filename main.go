package main

import (
	"github.com/werktool/werk/internal/command"
)

func main() {
	command.Execute()
}
