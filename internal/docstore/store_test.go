package docstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "http://files.test/files"

func TestFSStore_PutThenFetch(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFSStore(fs, testBase+"/")
	ctx := context.Background()

	url, err := store.Put(ctx, "ws-1/100_charter.txt", []byte("charter"))
	require.NoError(t, err)
	assert.Equal(t, testBase+"/ws-1/100_charter.txt", url)

	exists, err := afero.Exists(fs, "/ws-1/100_charter.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Fetch(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "charter", string(data))
}

func TestFSStore_FetchMissingLocal(t *testing.T) {
	store := NewFSStore(afero.NewMemMapFs(), testBase)
	_, err := store.Fetch(context.Background(), testBase+"/ws-1/nope.pdf")
	assert.Error(t, err)
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	store := NewFSStore(afero.NewMemMapFs(), testBase)
	ctx := context.Background()

	for _, p := range []string{"../etc/passwd", "/abs/file", "ws/../../x", `ws\file`, ""} {
		_, err := store.Put(ctx, p, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
	_, err := store.Fetch(ctx, testBase+"/../secret")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestFSStore_FetchRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, "remote body")
	}))
	defer srv.Close()

	store := NewFSStore(afero.NewMemMapFs(), testBase)

	data, err := store.Fetch(context.Background(), srv.URL+"/doc.txt")
	require.NoError(t, err)
	assert.Equal(t, "remote body", string(data))

	_, err = store.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFSStore_FileSystemServesObjects(t *testing.T) {
	store := NewFSStore(afero.NewMemMapFs(), testBase)
	_, err := store.Put(context.Background(), "ws-1/a.txt", []byte("hello"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.FileServer(store.FileSystem()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws-1/a.txt")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(body))
}

func TestObjectPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "ws-1/1700000000123_charter.pdf", ObjectPath("ws-1", "charter.pdf", now))
	assert.Equal(t, "ws-1/1700000000123_evil.pdf", ObjectPath("ws-1", "../../evil.pdf", now))
	assert.Equal(t, "ws-1/1700000000123_x.pdf", ObjectPath("ws-1", `C:\tmp\x.pdf`, now))
	assert.Equal(t, "ws-1/1700000000123_document", ObjectPath("ws-1", "", now))
}
