package backend

import (
	"context"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	pathlocal "github.com/ImGajeed76/shellpath/pkg/shellpath/path/operations/local"
)

const LocalTag = "local"

func init() {
	Register(LocalTag, func(context.Context, Options) (Backend, error) {
		return Local(), nil
	})
}

type localBackend struct{}

// Local is the filesystem of the running process.
func Local() Backend {
	return localBackend{}
}

func (localBackend) List(dir string) ([]pathmodels.FileInfo, error) {
	return pathlocal.List(dir)
}

func (localBackend) Stat(name string) (*pathmodels.FileInfo, error) {
	return pathlocal.Stat(name)
}

func (localBackend) MkdirAll(dir string) error {
	return pathlocal.MakeDir(dir, true, true)
}

func (localBackend) Open(name string) (pathmodels.Reader, error) {
	return pathlocal.Open(name)
}

func (localBackend) Create(name string, perm pathmodels.FileMode) (pathmodels.Writer, error) {
	return pathlocal.Create(name, perm)
}

func (localBackend) Rename(oldName, newName string) error {
	return pathlocal.Rename(oldName, newName)
}

func (localBackend) Remove(name string) error {
	return pathlocal.Remove(name, true)
}

func (localBackend) Convention() path.Convention {
	return path.Native()
}

func (localBackend) Close() error {
	return nil
}
