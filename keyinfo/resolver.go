package keyinfo

import (
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// ErrUnmappedLabel is returned by Resolver.ResolveStrict for labels that only resolve by pass-through.
var ErrUnmappedLabel = errors.New("unmapped key label")

// Resolution describes how a Resolver handled a label.
type Resolution struct {
	Label      string     `json:"label"`
	Descriptor Descriptor `json:"descriptor"`
	Tier       Tier       `json:"tier"`
	// Alias is the target label when an alias was applied.
	Alias string `json:"alias,omitempty"`
}

// Err is ErrUnmappedLabel, wrapped with the label, when the label only resolved by pass-through.
func (r Resolution) Err() error {
	if r.Tier != TierPassThrough {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnmappedLabel, r.Label)
}

type Stats struct {
	Table       int64 `json:"table"`
	Alias       int64 `json:"alias"`
	Letter      int64 `json:"letter"`
	Digit       int64 `json:"digit"`
	PassThrough int64 `json:"passthrough"`
}

type resolverOptions struct {
	log          *zap.Logger
	aliases      map[string]string
	warnUnmapped bool
}

type Option func(*resolverOptions)

func WithLogger(log *zap.Logger) Option {
	return func(o *resolverOptions) {
		o.log = log
	}
}

// WithAliases adds label synonyms resolved after the table. Targets are resolved with Resolve,
// so aliases never chain.
func WithAliases(aliases map[string]string) Option {
	return func(o *resolverOptions) {
		for from, to := range aliases {
			o.aliases[from] = to
		}
	}
}

// WithWarnUnmapped logs a warning the first time each distinct label falls through to pass-through.
func WithWarnUnmapped(warn bool) Option {
	return func(o *resolverOptions) {
		o.warnUnmapped = warn
	}
}

// Resolver wraps Resolve with aliases, unmapped-label warnings and counters.
// It is safe for concurrent use.
type Resolver struct {
	log          *zap.Logger
	aliases      map[string]string
	warnUnmapped bool
	warned       *xsync.MapOf[string, struct{}]

	table       atomic.Int64
	alias       atomic.Int64
	letter      atomic.Int64
	digit       atomic.Int64
	passThrough atomic.Int64
}

func NewResolver(opts ...Option) *Resolver {
	options := resolverOptions{
		log:     zap.NewNop(),
		aliases: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Resolver{
		log:          options.log,
		aliases:      options.aliases,
		warnUnmapped: options.warnUnmapped,
		warned:       xsync.NewMapOf[string, struct{}](),
	}
}

func (r *Resolver) Resolve(label string) Descriptor {
	return r.Resolution(label).Descriptor
}

func (r *Resolver) Resolution(label string) Resolution {
	if d, ok := labelMap[label]; ok {
		r.table.Inc()
		return Resolution{Label: label, Descriptor: d, Tier: TierTable}
	}
	if target, ok := r.aliases[label]; ok {
		r.alias.Inc()
		d, tier := ResolveTier(target)
		r.log.Debug("Resolved key alias", zap.String("label", label), zap.String("target", target), zap.Stringer("tier", tier))
		return Resolution{Label: label, Descriptor: d, Tier: tier, Alias: target}
	}
	d, tier := ResolveTier(label)
	switch tier {
	case TierLetter:
		r.letter.Inc()
	case TierDigit:
		r.digit.Inc()
	case TierPassThrough:
		r.passThrough.Inc()
		r.warn(label)
	}
	return Resolution{Label: label, Descriptor: d, Tier: tier}
}

// ResolveStrict fails with ErrUnmappedLabel instead of passing an unknown label through.
// An alias whose target passes through is also unmapped.
func (r *Resolver) ResolveStrict(label string) (Descriptor, error) {
	res := r.Resolution(label)
	return res.Descriptor, res.Err()
}

func (r *Resolver) Stats() Stats {
	return Stats{
		Table:       r.table.Load(),
		Alias:       r.alias.Load(),
		Letter:      r.letter.Load(),
		Digit:       r.digit.Load(),
		PassThrough: r.passThrough.Load(),
	}
}

// Aliases returns a copy of the configured aliases.
func (r *Resolver) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

func (r *Resolver) warn(label string) {
	if !r.warnUnmapped {
		return
	}
	if _, loaded := r.warned.LoadOrStore(label, struct{}{}); loaded {
		return
	}
	r.log.Warn("Unmapped key label passed through as code", zap.String("label", label))
}
