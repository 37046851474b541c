package commands

import (
	"github.com/spf13/cobra"

	"github.com/meshnetworks/hoproute/src/config"
)

var (
	_config = config.NewDefaultConfig()
)

//RootCmd is the root command for hoproute
var RootCmd = &cobra.Command{
	Use:              "hoproute",
	Short:            "p2p routing core",
	TraverseChildren: true,
}
