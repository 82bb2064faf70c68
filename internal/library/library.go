package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/cwbudde/algo-fxfit/dsp/signal"
	"github.com/cwbudde/algo-fxfit/internal/wavio"
)

// Option configures a Library.
type Option func(*Library) error

// WithLogger sets the logger used to report asset loads.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Library) error {
		if logger == nil {
			return errors.New("library: nil logger")
		}

		l.logger = logger

		return nil
	}
}

// Library loads registry assets from a base directory. Loaded signals are
// cached per name and shared between callers, who must not modify them.
// A Library is safe for concurrent use.
type Library struct {
	baseDir  string
	registry Registry
	logger   logrus.FieldLogger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]signal.Signal
}

// New returns a Library reading from baseDir.
func New(baseDir string, registry Registry, opts ...Option) (*Library, error) {
	if baseDir == "" {
		return nil, errors.New("library: empty base directory")
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	l := &Library{
		baseDir:  baseDir,
		registry: registry,
		logger:   discard,
		cache:    make(map[string]signal.Signal),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Registry returns the registry the library was built with.
func (l *Library) Registry() Registry { return l.registry }

// BaseDir returns the asset directory.
func (l *Library) BaseDir() string { return l.baseDir }

// Path returns the on-disk location of the asset registered for name.
func (l *Library) Path(name string) (string, error) {
	asset, err := l.registry.Lookup(name)
	if err != nil {
		return "", err
	}

	return filepath.Join(l.baseDir, asset), nil
}

// Dry returns the unprocessed reference recording.
func (l *Library) Dry() (signal.Signal, error) {
	return l.Target(DryKey)
}

// Target returns the recording for the named effect, loading it on first use.
func (l *Library) Target(name string) (signal.Signal, error) {
	l.mu.RLock()
	sig, ok := l.cache[name]
	l.mu.RUnlock()

	if ok {
		return sig, nil
	}

	v, err, _ := l.group.Do(name, func() (any, error) {
		return l.load(name)
	})
	if err != nil {
		return signal.Signal{}, err
	}

	return v.(signal.Signal), nil
}

func (l *Library) load(name string) (signal.Signal, error) {
	path, err := l.Path(name)
	if err != nil {
		return signal.Signal{}, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return signal.Signal{}, fmt.Errorf("%w: %s: %s", ErrMissingAsset, name, path)
		}

		return signal.Signal{}, fmt.Errorf("library: %w", err)
	}

	l.logger.WithFields(logrus.Fields{
		"effect": name,
		"path":   path,
	}).Debug("loading asset")

	sig, err := wavio.Load(path)
	if err != nil {
		return signal.Signal{}, fmt.Errorf("library: %s: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = sig
	l.mu.Unlock()

	return sig, nil
}

// Verify returns "NAME: file" for every registered asset absent from disk,
// dry reference included. An empty result means all assets are present.
func (l *Library) Verify() []string {
	names := append([]string{DryKey}, l.registry.Names()...)

	var missing []string

	for _, name := range names {
		asset, err := l.registry.Lookup(name)
		if err != nil {
			if name == DryKey {
				missing = append(missing, fmt.Sprintf("%s: <unregistered>", name))
			}

			continue
		}

		if _, err := os.Stat(filepath.Join(l.baseDir, asset)); err != nil {
			missing = append(missing, fmt.Sprintf("%s: %s", name, asset))
		}
	}

	if len(missing) > 0 {
		l.logger.WithField("missing", len(missing)).Warn("assets not found")
	}

	return missing
}
