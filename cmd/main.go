package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postpilot-ai/postpilot/cmd/service"
)

func main() {
	root := &cobra.Command{
		Use:   "postpilot",
		Short: "postpilot reply engine",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("empty command")
		},
	}

	root.AddCommand(
		service.NewCommand(),
		service.NewIngestCommand(),
		service.NewAutoReplyCommand(),
		service.NewProcessCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
