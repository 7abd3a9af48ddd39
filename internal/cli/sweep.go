package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thedreamteamconsultancy/workstatus/internal/app"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one auto-delay pass over the task store and exit",
	RunE:  runSweep,
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		a.Shutdown()
		return err
	}
	delayed, err := a.SweepOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "delayed %d task(s)\n", delayed)
	return nil
}
