// Package cli implements the lrgb command tree.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mrjoshuak/go-lrgb/internal/config"
	"github.com/mrjoshuak/go-lrgb/internal/logging"
)

var version = "dev"

// SetVersion sets the version reported by --version and the version
// command.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// app holds state shared by the subcommands of one invocation.
type app struct {
	cfg *config.Config
}

// setup loads the configuration file and applies its logging section.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	if err := cfg.Logging.Apply(); err != nil {
		return err
	}
	if p := cfg.Path(); p != "" {
		logging.Debugf("using config %s", p)
	}
	a.cfg = cfg
	return nil
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:     "lrgb",
		Version: version,
		Short:   "Compose LRGB colour images from FITS exposures",
		Long: `lrgb combines a luminance exposure and red, green and blue filter
exposures, each stored in a FITS file, into a single RGB FITS image.

Each input file must hold exactly one grayscale image extension. All four
must use the same sample encoding and share the same width and height.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(
		newMergeCmd(a),
		newInfoCmd(),
		newPreviewCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lrgb version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(cmd.Root().Version)
		},
	}
}

// Execute runs the command line in os.Args. An interrupt cancels a running
// merge.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logging.Shutdown()
	return newRootCmd().ExecuteContext(ctx)
}
