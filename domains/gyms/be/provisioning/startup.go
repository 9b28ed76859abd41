package provisioning

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// KeySource lists all known gym keys; implemented by the gyms repository.
type KeySource interface {
	ListKeys(ctx context.Context) ([]string, error)
}

// Attacher is the registration+migration half of the provisioner. Startup
// never creates databases: it assumes they exist from prior provisioning and
// only reconnects and migrates.
type Attacher interface {
	Attach(ctx context.Context, gymKey string) error
}

// Loader rebuilds the connection registry from the gyms table at process
// boot. One gym's failure never prevents subsequent gyms from loading or the
// process from finishing startup.
type Loader struct {
	source   KeySource
	attacher Attacher
	logger   *zap.Logger
}

// NewLoader constructs a startup Loader.
func NewLoader(source KeySource, attacher Attacher, logger *zap.Logger) *Loader {
	if source == nil {
		panic("loader requires key source")
	}
	if attacher == nil {
		panic("loader requires attacher")
	}
	if logger == nil {
		panic("loader requires logger")
	}
	return &Loader{source: source, attacher: attacher, logger: logger}
}

// LoadAll attaches every known gym. Returns an error only when the gym list
// itself cannot be read; per-gym failures are logged and skipped.
func (l *Loader) LoadAll(ctx context.Context) error {
	keys, err := l.source.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("list gym keys: %w", err)
	}

	loaded := 0
	for _, key := range keys {
		if err := l.attacher.Attach(ctx, key); err != nil {
			l.logger.Error("skipping gym at startup", zap.String("gym", key), zap.Error(err))
			continue
		}
		loaded++
	}

	l.logger.Info("gym registry loaded", zap.Int("gyms", loaded), zap.Int("known", len(keys)))
	return nil
}
