package main

import (
	"fmt"
	"os"

	"github.com/templui/accountabot/cmd/botctl/cmd"
)

func main() {
	rootCmd, closeApp := cmd.RootCmd(cmd.OpenApp)
	err := rootCmd.Execute()

	if closeErr := closeApp(); closeErr != nil {
		fmt.Fprintln(os.Stderr, "failed to close app:", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
