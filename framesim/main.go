// Package main runs the framesim command line tool.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/framesim/framesim/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
