package main

import (
	"os"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	os.Exit(reportError(cmd.ErrOrStderr(), err))
}
