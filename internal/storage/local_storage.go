package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var ErrBlobNotFound = errors.New("blob not found")

// LocalStorage keeps file content on local disk, one blob per node id.
// Blobs are sharded into two-character prefix directories so a single
// directory never collects millions of entries.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) blobPath(id string) string {
	shard := id
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(ls.basePath, shard, id)
}

func (ls *LocalStorage) Save(id string, data io.Reader) error {
	path := ls.blobPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (ls *LocalStorage) Get(id string) (io.ReadCloser, error) {
	file, err := os.Open(ls.blobPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return file, nil
}

func (ls *LocalStorage) Delete(id string) error {
	err := os.Remove(ls.blobPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
