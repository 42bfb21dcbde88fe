// Package backend maps storage tags to the collaborators the glob engine and
// bulk copy run against. The local filesystem and SFTP are registered by
// default; other storage plugs in through Register.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/pkg/sftp"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/bulkcopy"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/glob"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	sftpmanager "github.com/ImGajeed76/shellpath/pkg/shellpath/sftp"
)

// Backend is one storage system seen through the engine's collaborators.
type Backend interface {
	glob.Lister
	bulkcopy.FileSystem
	// Convention is how the backend spells paths
	Convention() path.Convention
	Close() error
}

// Options carries what a constructor may need. Backends ignore the fields
// that do not apply to them.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	// Client is used as-is instead of dialing
	Client *sftp.Client
	// Manager pools remote connections; the global manager when nil
	Manager *sftpmanager.Manager
	Logger  *log.Logger
}

type Constructor func(ctx context.Context, opts Options) (Backend, error)

var ErrUnknownBackend = errors.New("unknown backend")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a backend available under tag. It panics if tag is taken
// or c is nil.
func Register(tag string, c Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if c == nil {
		panic("backend: Register constructor is nil")
	}
	if _, dup := registry[tag]; dup {
		panic("backend: Register called twice for " + tag)
	}
	registry[tag] = c
}

// Open builds the backend registered under tag.
func Open(ctx context.Context, tag string, opts Options) (Backend, error) {
	registryMu.RLock()
	c, ok := registry[tag]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownBackend, tag, Tags())
	}
	return c(ctx, opts)
}

// Tags lists the registered tags in order.
func Tags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func registered(tag string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[tag]
	return ok
}
