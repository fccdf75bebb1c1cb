package commands

import (
	"context"
	"sync"

	"github.com/doeshing/symcheck-go/internal/app"
	"github.com/doeshing/symcheck-go/internal/infrastructure/config"
)

// Deps builds the container on first use so flags are parsed before config is read
// and commands that only inspect config never open the history store.
type Deps struct {
	Options app.Options

	mu        sync.Mutex
	container *app.Container
}

// Container returns the shared container, building it if needed.
func (d *Deps) Container(ctx context.Context) (*app.Container, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.container != nil {
		return d.container, nil
	}
	c, err := app.BuildContainer(ctx, d.Options)
	if err != nil {
		return nil, err
	}
	d.container = c
	return c, nil
}

// Loader returns a config loader honoring --config.
func (d *Deps) Loader() *config.FileLoader {
	return config.NewFileLoader(d.Options.ConfigPath)
}

// Close releases the container if one was built.
func (d *Deps) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.container == nil {
		return nil
	}
	err := d.container.Close()
	d.container = nil
	return err
}
