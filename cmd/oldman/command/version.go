package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oldman-go/oldman/version"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Version information.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("OldMan", version.Version)
			fmt.Println("Git commit hash:", version.GitHash)
			if version.BuildDate != "" {
				fmt.Println("Build date:", version.BuildDate)
			}
		},
	}
}
