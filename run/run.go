package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"
	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"mtpstub/files"
	"mtpstub/intercept"
	"mtpstub/journal"
	"mtpstub/objects"
	"mtpstub/state"
)

// Send intercepts the path-based send entry point for every local file
// given on the command line.
func Send(ctx *cli.Context) error {
	env := ctx.Generic(state.FlagName).(*state.LocalEnv)
	log := env.Log.Named("run")

	if ctx.NArg() == 0 {
		return errors.New("no local files to send")
	}

	log.Info("Interception starting",
		zap.String("op", "send"),
		zap.String("log", env.Cfg.Intercept.Log),
		zap.Int("files", ctx.NArg()),
	)
	defer func(start time.Time) {
		log.Info("Interception finished",
			zap.String("op", "send"),
			zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	dev, jrnl, err := connect(ctx, env)
	if err != nil {
		return err
	}
	defer dev.Disconnect()
	defer jrnl.Disconnect()

	for _, path := range ctx.Args().Slice() {
		fi, err := files.Describe(path, log)
		if err != nil {
			return fmt.Errorf("unable to describe source: %w", err)
		}
		if err := dev.SendFromFile(path, fi, nil, nil); err != nil {
			return fmt.Errorf("send interception failed: %w", err)
		}
		log.Info("Intercepted send",
			zap.String("path", path),
			zap.String("size", humanize.IBytes(uint64(fi.ObjSize))),
			zap.Stringer("type", fi.Type))
	}
	return nil
}

// Feed intercepts the descriptor-based send entry point, either for a
// single local file or for standard input.
func Feed(ctx *cli.Context) error {
	env := ctx.Generic(state.FlagName).(*state.LocalEnv)
	log := env.Log.Named("run")

	if ctx.NArg() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", ctx.Args().Slice()[1:]))
	}

	log.Info("Interception starting", zap.String("op", "feed"), zap.String("log", env.Cfg.Intercept.Log))
	defer func(start time.Time) {
		log.Info("Interception finished",
			zap.String("op", "feed"),
			zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	dev, jrnl, err := connect(ctx, env)
	if err != nil {
		return err
	}
	defer dev.Disconnect()
	defer jrnl.Disconnect()

	var (
		src io.Reader = os.Stdin
		fi            = &objects.FileInfo{Name: "stdin", Type: objects.FileTypeUnknown}
	)
	if path := ctx.Args().Get(0); len(path) > 0 {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("unable to open source file '%s': %w", path, err)
		}
		defer f.Close()
		if fi, err = files.Describe(path, log); err != nil {
			return fmt.Errorf("unable to describe source: %w", err)
		}
		src = f
	}

	if err := dev.SendFromReader(src, fi, nil, nil); err != nil {
		return fmt.Errorf("feed interception failed: %w", err)
	}
	return nil
}

func connect(ctx *cli.Context, env *state.LocalEnv) (*intercept.Device, *journal.Connection, error) {
	log := env.Log.Named("run")

	journalPath := filepath.Join(env.Cfg.Journal.Path, journal.GetName(env.Cfg.Journal.Label))
	journalExists := true
	if _, err := os.Stat(journalPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("journal database '%s' cannot be accessed: %w", journalPath, err)
		}
		journalExists = false
	}
	log.Debug("Journal database", zap.String("path", journalPath))

	if !journalExists {
		if err := journal.Create(journalPath, log, env.Cfg.Journal.Label); err != nil {
			return nil, nil, fmt.Errorf("unable to create new journal database '%s': %w", journalPath, err)
		}
	}

	jrnl, err := journal.Connect(journalPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("journal cannot be opened: %w", err)
	}

	verbose := env.Cfg.Intercept.VerboseDump || ctx.Bool("verbose-dump")
	dev, err := intercept.Connect(
		intercept.NewFileSink(env.Cfg.Intercept.Log),
		jrnl, verbose, env.Cfg.Intercept.ChunkSize, env.Log)
	if err != nil {
		jrnl.Disconnect()
		return nil, nil, fmt.Errorf("unable to prepare interception shim: %w", err)
	}
	return dev, jrnl, nil
}
