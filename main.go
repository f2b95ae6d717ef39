package main

import (
	"fmt"
	"os"

	"github.com/PrefaceCoding/BlogCloneProject/service"
)

func main() {
	if err := service.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
