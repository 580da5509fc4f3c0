package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/genricoloni/playersnap/internal/engine"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const stopTimeout = 5 * time.Second

// operation is one engine entry point run inside a started application
type operation func(ctx context.Context, eng *engine.Engine) engine.Code

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	code := int(engine.CodeOK)
	root := newRootCmd(func(configPath string, op operation) {
		code = run(configPath, op)
	})
	if err := root.Execute(); err != nil {
		// usage errors are printed by cobra
		os.Exit(int(engine.CodeCollaboratorError))
	}
	os.Exit(code)
}

// newRootCmd builds the command tree. dispatch runs the selected operation.
func newRootCmd(dispatch func(configPath string, op operation)) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "playersnap",
		Short:         "Save and restore the state of an MPRIS media player",
		Long:          "Captures the play queue, position, settings and window placement of a running media player and brings them back later.",
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the TOML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "save FILE",
			Short: "Capture the player state into FILE",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				path := args[0]
				dispatch(configPath, func(ctx context.Context, eng *engine.Engine) engine.Code {
					return eng.OnSave(ctx, path)
				})
			},
		},
		&cobra.Command{
			Use:   "resume FILE",
			Short: "Restore the player state saved in FILE",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				path := args[0]
				dispatch(configPath, func(ctx context.Context, eng *engine.Engine) engine.Code {
					return eng.OnResume(ctx, path)
				})
			},
		},
		&cobra.Command{
			Use:   "close",
			Short: "Force-terminate every player process",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				dispatch(configPath, func(ctx context.Context, eng *engine.Engine) engine.Code {
					return eng.OnClose(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "capture",
			Short: "Print the live player state as JSON without saving it",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				out := cmd.OutOrStdout()
				dispatch(configPath, func(ctx context.Context, eng *engine.Engine) engine.Code {
					return eng.Capture(ctx, out)
				})
			},
		},
	)
	return root
}

// run builds the application, runs op between start and stop and returns the exit code
func run(configPath string, op operation) int {
	var eng *engine.Engine
	app := fx.New(
		AppOptions,
		fx.Supply(ConfigPath(configPath)),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Populate(&eng),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "playersnap: %v\n", err)
		return int(engine.CodeCollaboratorError)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "playersnap: %v\n", err)
		return int(engine.CodeCollaboratorError)
	}

	code := op(ctx, eng)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "playersnap: shutdown: %v\n", err)
	}
	return int(code)
}
