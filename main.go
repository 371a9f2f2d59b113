package main

import (
	"github.com/andeanbio/biomon/cmd"
)

func main() {
	cmd.Execute()
}
