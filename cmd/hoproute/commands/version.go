package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshnetworks/hoproute/src/version"
)

//VersionCmd displays the version of hoproute being used
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}
