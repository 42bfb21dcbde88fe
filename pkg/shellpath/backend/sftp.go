package backend

import (
	"context"

	"github.com/pkg/sftp"

	"github.com/ImGajeed76/shellpath/pkg/shellpath/path"
	pathmodels "github.com/ImGajeed76/shellpath/pkg/shellpath/path/models"
	pathsftp "github.com/ImGajeed76/shellpath/pkg/shellpath/path/operations/sftp"
	sftpmanager "github.com/ImGajeed76/shellpath/pkg/shellpath/sftp"
)

const SFTPTag = "sftp"

func init() {
	Register(SFTPTag, openSFTP)
}

func openSFTP(ctx context.Context, opts Options) (Backend, error) {
	if opts.Client != nil {
		return SFTP(opts.Client), nil
	}

	manager := opts.Manager
	if manager == nil {
		manager = sftpmanager.GetGlobalManager()
	}
	client, err := manager.GetClient(ctx, sftpmanager.ConnectionDetails{
		Hostname: opts.Host,
		Port:     opts.Port,
		Username: opts.Username,
		Password: opts.Password,
	})
	if err != nil {
		return nil, err
	}
	return SFTP(client), nil
}

// sftpBackend borrows its client; closing the backend leaves the
// connection to whoever owns it.
type sftpBackend struct {
	client *sftp.Client
}

// SFTP serves a remote filesystem over client.
func SFTP(client *sftp.Client) Backend {
	return sftpBackend{client: client}
}

func (b sftpBackend) List(dir string) ([]pathmodels.FileInfo, error) {
	return pathsftp.List(b.client, dir)
}

func (b sftpBackend) Stat(name string) (*pathmodels.FileInfo, error) {
	return pathsftp.Stat(b.client, name)
}

func (b sftpBackend) MkdirAll(dir string) error {
	return pathsftp.MakeDir(b.client, dir, true, true)
}

func (b sftpBackend) Open(name string) (pathmodels.Reader, error) {
	return pathsftp.Open(b.client, name)
}

func (b sftpBackend) Create(name string, perm pathmodels.FileMode) (pathmodels.Writer, error) {
	return pathsftp.Create(b.client, name, perm)
}

func (b sftpBackend) Rename(oldName, newName string) error {
	return pathsftp.Rename(b.client, oldName, newName)
}

func (b sftpBackend) Remove(name string) error {
	return pathsftp.Remove(b.client, name, true)
}

func (sftpBackend) Convention() path.Convention {
	return path.Posix
}

func (sftpBackend) Close() error {
	return nil
}
