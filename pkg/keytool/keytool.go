package keytool

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/neuroplastio/keyinfo/internal/configsvc"
	"github.com/neuroplastio/keyinfo/keyinfo"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

type Tool struct {
	log        *zap.Logger
	configPath string
	config     Config

	configSvc *configsvc.Service
	resolver  *atomic.Pointer[keyinfo.Resolver]
	formatter Formatter
}

// NewTool loads the config file (a missing file yields DefaultConfig), applies flag overrides and
// builds the logger and resolver. Logs go to logOut, or stderr when logOut is nil.
func NewTool(configPath string, overrides Overrides, logOut io.Writer) (*Tool, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = configsvc.Load(configPath, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
	}
	cfg = cfg.apply(overrides)

	logger, err := newLogger(cfg.LogLevel, logOut)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	formatters := NewFormatters()
	formatter, err := formatters.Get(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(formatters.Names(), ", "))
	}

	t := &Tool{
		log:        logger,
		configPath: configPath,
		config:     cfg,
		configSvc:  configsvc.New(logger.Named("config")),
		formatter:  formatter,
	}
	t.resolver = atomic.NewPointer(t.newResolver(cfg.Aliases))
	return t, nil
}

func newLogger(level string, out io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(lvl)
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if out == nil {
		return loggerConfig.Build()
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(loggerConfig.EncoderConfig), zapcore.Lock(zapcore.AddSync(out)), loggerConfig.Level)
	return zap.New(core, zap.Development()), nil
}

func (t *Tool) newResolver(aliases map[string]string) *keyinfo.Resolver {
	return keyinfo.NewResolver(
		keyinfo.WithLogger(t.log.Named("resolver")),
		keyinfo.WithAliases(aliases),
		keyinfo.WithWarnUnmapped(t.config.WarnUnmapped),
	)
}

func (t *Tool) Config() Config {
	return t.config
}

func (t *Tool) Resolver() *keyinfo.Resolver {
	return t.resolver.Load()
}

func (t *Tool) Close() error {
	// syncing a terminal fails on most platforms
	_ = t.log.Sync()
	return nil
}

// ResolveLabels writes one result per label. In strict mode it stops at the first unmapped label.
func (t *Tool) ResolveLabels(labels []string, out io.Writer, strict bool) error {
	for _, label := range labels {
		if err := t.resolveOne(label, out, strict); err != nil {
			return err
		}
	}
	t.logStats()
	return nil
}

// ResolveStream resolves one label per input line until EOF or ctx is cancelled.
// With watch set, alias changes in the config file apply to subsequent lines; an invalid file keeps
// the last valid aliases.
func (t *Tool) ResolveStream(ctx context.Context, in io.Reader, out io.Writer, strict, watch bool) error {
	group, groupCtx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(groupCtx)
	defer stopWatch()

	if watch {
		if t.configPath == "" {
			return fmt.Errorf("--watch requires a config file")
		}
		group.Go(func() error {
			return t.configSvc.Start(watchCtx)
		})
		select {
		case <-t.configSvc.Ready():
		case <-groupCtx.Done():
			return group.Wait()
		}
		def := t.config
		def.Aliases = nil
		_, err := configsvc.Register(t.configSvc, t.configPath, def, t.reload)
		if err != nil {
			stopWatch()
			_ = group.Wait()
			return fmt.Errorf("failed to watch config %s: %w", t.configPath, err)
		}
	}

	group.Go(func() error {
		defer stopWatch()
		return t.scan(groupCtx, in, out, strict)
	})

	err := group.Wait()
	t.logStats()
	return err
}

// scan returns as soon as ctx is done; the reading goroutine exits once in yields or closes.
func (t *Tool) scan(ctx context.Context, in io.Reader, out io.Writer, strict bool) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go readLines(ctx, in, lines, readErr)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read labels: %w", err)
				}
				return nil
			}
			if err := t.resolveOne(strings.TrimSuffix(line, "\r"), out, strict); err != nil {
				return err
			}
		}
	}
}

func readLines(ctx context.Context, in io.Reader, lines chan<- string, readErr chan<- error) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- scanner.Err()
}

func (t *Tool) resolveOne(label string, out io.Writer, strict bool) error {
	res := t.resolver.Load().Resolution(label)
	if strict {
		if err := res.Err(); err != nil {
			return err
		}
	}
	if err := t.formatter.Resolution(out, res); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func (t *Tool) reload(cfg Config, err error) {
	if err != nil {
		t.log.Error("Failed to reload config, keeping previous aliases", zap.Error(err))
		return
	}
	t.resolver.Store(t.newResolver(cfg.Aliases))
	t.log.Info("Reloaded key aliases", zap.Int("aliases", len(cfg.Aliases)))
}

// Entries writes the label table, optionally restricted to one group.
func (t *Tool) Entries(out io.Writer, group string) error {
	entries := keyinfo.Entries()
	if group != "" {
		g, err := keyinfo.ParseGroup(group)
		if err != nil {
			return err
		}
		entries = keyinfo.EntriesIn(g)
	}
	for _, e := range entries {
		if err := t.formatter.Entry(out, e); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}
	return nil
}

func (t *Tool) logStats() {
	stats := t.resolver.Load().Stats()
	t.log.Debug("Resolution stats",
		zap.Int64("table", stats.Table),
		zap.Int64("alias", stats.Alias),
		zap.Int64("letter", stats.Letter),
		zap.Int64("digit", stats.Digit),
		zap.Int64("passthrough", stats.PassThrough),
	)
}
