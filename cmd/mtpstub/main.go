package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"mtpstub/config"
	"mtpstub/journal"
	"mtpstub/misc"
	"mtpstub/run"
	"mtpstub/state"
)

func beforeAppRun(ctx *cli.Context) (err error) {
	if ctx.NArg() == 0 {
		return nil
	}
	env := ctx.Generic(state.FlagName).(*state.LocalEnv)

	configFile := ctx.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RestoreStdLog = zap.RedirectStdLog(env.Log)

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()+" ("+runtime.Version()+") : "+misc.GetGitHash()))
	return nil
}

func afterAppRun(ctx *cli.Context) error {
	env := ctx.Generic(state.FlagName).(*state.LocalEnv)
	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", time.Since(env.Start)), zap.Strings("parsed args", ctx.Args().Slice()))
	}
	return nil
}

func beforeCmdRun(ctx *cli.Context) (err error) {
	env := ctx.Generic(state.FlagName).(*state.LocalEnv)

	configFile := ctx.String("config")
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return nil
}

func main() {

	env := state.NewLocalEnv()

	app := &cli.App{
		Name:            "mtpstub",
		Usage:           "debug interception shim for MTP send entry points, logs calls instead of transferring anything",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          beforeAppRun,
		After:           afterAppRun,
		Flags: []cli.Flag{
			&cli.GenericFlag{Name: state.FlagName, Hidden: true, Value: env},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "send",
				Usage:  "Runs local files through the path-based send interception",
				Before: beforeCmdRun,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose-dump", Aliases: []string{"v"}, Usage: "hex-dump source content into the diagnostic log"},
				},
				Action:    run.Send,
				ArgsUsage: "PATH...",
				CustomHelpTemplate: fmt.Sprintf(`%s
Each PATH is described the way a real driver would describe it before sending and passed
through the interception shim. One diagnostic line per call is appended to the log, no device
I/O takes place. Non-existent paths fail the same way the original stub does.
`, cli.CommandHelpTemplate),
			},
			{
				Name:   "feed",
				Usage:  "Runs a readable source through the descriptor-based send interception",
				Before: beforeCmdRun,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose-dump", Aliases: []string{"v"}, Usage: "hex-dump source content into the diagnostic log"},
				},
				Action:    run.Feed,
				ArgsUsage: "[PATH]",
				CustomHelpTemplate: fmt.Sprintf(`%s
PATH:
    local file to feed through the shim, if absent - STDIN

The source is passed to the shim as an already-open read handle, matching the
file-descriptor entry point of the library being stubbed.
`, cli.CommandHelpTemplate),
			},
			{
				Name:   "journal",
				Usage:  "Lists details for local journal databases",
				Before: beforeCmdRun,
				Action: journal.List,
				CustomHelpTemplate: fmt.Sprintf(`%s
Lists local journal databases specifying recorded interceptions for each of them.
`, cli.CommandHelpTemplate),
			},
			{
				Name:   "dumpconfig",
				Usage:  "Dumps either default or active configuration (YAML)",
				Before: beforeCmdRun,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dry-run", Usage: "output active configuration to be used in actual operations, including values from --config file"},
				},
				Action:    outputConfiguration,
				ArgsUsage: "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with default configuration values.
To see actual "active" configuration use dry-run mode.
`, cli.CommandHelpTemplate),
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		if env.Log != nil {
			env.Log.Error("Command ended with error", zap.Error(err))
		} else {
			// if we do not have logger yet, we can only print to stderr
			fmt.Fprintf(os.Stderr, "Command ended with error: %v\n", err)
		}
	}
	if env.Log != nil {
		_ = env.Log.Sync()
		env.RestoreStdLog()
		env.Log = nil
	}
	if err != nil {
		os.Exit(1)
	}
}

func outputConfiguration(ctx *cli.Context) error {

	env := ctx.Generic(state.FlagName).(*state.LocalEnv)
	if ctx.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", ctx.Args().Slice()[1:]))
	}

	fname := ctx.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if ctx.Bool("dry-run") {
		state = "active"
		data, err = config.Dump(env.Cfg)
	} else {
		state = "default"
		data, err = config.Prepare()
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
