package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anyonecancode/acc/internal/infrastructure/cli"
)

func main() {
	root, closeFn := cli.NewRootCmd(cli.Options{Verbose: isVerbose()})

	err := root.ExecuteContext(context.Background())
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("ACC_DEBUG"), "1") || strings.EqualFold(os.Getenv("ACC_DEBUG"), "true")
}
