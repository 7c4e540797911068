package cmd

import (
	"fmt"

	"github.com/josephlewis42/labsh/core"
	"github.com/josephlewis42/labsh/core/config"
	"github.com/josephlewis42/labsh/core/vos"
	"github.com/spf13/cobra"
)

const (
	VersionMajor = 1
	VersionMinor = 0
)

// newRootCmd creates the lab command, an interactive job-control shell on
// the terminal attached to standard input.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lab",
		Short:   "A minimal job-control shell",
		Long:    `Reads command lines from the terminal and runs each as a foreground job in its own process group.`,
		Version: fmt.Sprintf("%d.%d", VersionMajor, VersionMinor),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			sh, err := core.NewShell(vos.NewHostOS(), config.Default())
			if err != nil {
				return err
			}
			defer sh.Close()

			return sh.Run()
		},
	}
	cmd.SetVersionTemplate("lab version {{.Version}}\n")
	// Reported once by cobra.CheckErr.
	cmd.SilenceErrors = true

	return cmd
}

// Execute runs the shell with the process arguments. It's called by
// main.main().
func Execute() {
	cobra.CheckErr(newRootCmd().Execute())
}
