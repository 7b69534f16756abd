package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/deepsweep-ai/deepsweep/cmd"
)

func main() {
	err := cmd.Execute(os.Args[1:])
	if err == nil {
		return
	}
	if errors.Is(err, cmd.ErrFindingsAboveThreshold) {
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(2)
}
