package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/postpilot-ai/postpilot/app/core"
	v1 "github.com/postpilot-ai/postpilot/app/logic/v1"
	"github.com/postpilot-ai/postpilot/app/logic/v1/process"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init service by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "run the reply engine http service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	process.NewProcess(app).Start()
	serve(app)

	return nil
}

func NewIngestCommand() *cobra.Command {
	opts := &Options{}
	var (
		limit  uint64
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "ingest pending posts into the knowledge store",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
			summary, err := v1.NewLearnerLogic(context.Background(), app).BatchIngest(v1.BatchIngestOptions{
				Limit:  limit,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			fmt.Printf("total: %d, succeeded: %d, failed: %d, dry_run: %v\n",
				summary.Total, summary.Succeeded, summary.Failed, summary.DryRun)
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().Uint64Var(&limit, "limit", 0, "max posts to ingest, 0 for all due posts")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list due posts without calling any model")
	return cmd
}

func NewAutoReplyCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "autoreply [on|off]",
		Short: "flip the process-wide automatic reply toggle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
				enabled = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
			if err := app.SetAutoReply(context.Background(), enabled); err != nil {
				return err
			}
			fmt.Printf("autoreply %s\n", args[0])
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func NewProcessCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "run only the background ingestion schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProcess(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProcess(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	p := process.NewProcess(app)
	p.Start()
	fmt.Println("Process starting...")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	p.Stop()
	return nil
}
