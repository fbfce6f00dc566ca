package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"sunatstock/internal/blob"
)

// Store keeps blobs as files under a root directory. The content type is
// derived from the file extension on read.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if root == "" {
		root = "./uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() blob.Driver { return blob.DriverLocal }

func (s *Store) pathFor(key string) (string, string, error) {
	k, err := blob.CleanKey(key)
	if err != nil {
		return "", "", err
	}
	return k, filepath.Join(s.root, filepath.FromSlash(k)), nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (blob.Info, error) {
	k, dataPath, err := s.pathFor(key)
	if err != nil {
		return blob.Info{}, err
	}
	if _, err := os.Stat(dataPath); err == nil {
		return blob.Info{}, fmt.Errorf("blob %s already exists", k)
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return blob.Info{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return blob.Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	size, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return blob.Info{}, err
	}
	if err := tmp.Close(); err != nil {
		return blob.Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return blob.Info{}, err
	}

	st, err := os.Stat(dataPath)
	if err != nil {
		return blob.Info{}, err
	}
	return blob.Info{Key: k, Size: size, ContentType: contentType, LastModified: st.ModTime().UTC()}, nil
}

func (s *Store) Get(ctx context.Context, key string) (blob.Info, io.ReadCloser, error) {
	k, dataPath, err := s.pathFor(key)
	if err != nil {
		return blob.Info{}, nil, err
	}
	file, err := os.Open(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return blob.Info{}, nil, blob.ErrNotFound
	}
	if err != nil {
		return blob.Info{}, nil, err
	}
	st, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return blob.Info{}, nil, err
	}
	info := blob.Info{
		Key:          k,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(dataPath)),
		LastModified: st.ModTime().UTC(),
	}
	return info, file, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, dataPath, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dataPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
