package main

import (
	"fmt"
	"os"

	"github.com/kobzarvs/notepadmm/internal/app"
	"github.com/kobzarvs/notepadmm/internal/logger"
)

func main() {
	args, debug := parseArgs(os.Args[1:])
	if err := logger.Init(debug); err != nil {
		fmt.Fprintln(os.Stderr, "notepadmm: logging disabled:", err)
	}
	err := app.New(args).Run()
	if err != nil {
		logger.Error("exit", "error", err)
	}
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "notepadmm:", err)
		os.Exit(1)
	}
}

// parseArgs strips the --debug flag. Everything after "--" is a path.
func parseArgs(in []string) (paths []string, debug bool) {
	for i, a := range in {
		switch a {
		case "--":
			return append(paths, in[i+1:]...), debug
		case "--debug":
			debug = true
		default:
			paths = append(paths, a)
		}
	}
	return paths, debug
}
