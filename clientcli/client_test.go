package clientcli_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault/mediavault/clientcli"
)

func newClient(t *testing.T, handler http.HandlerFunc) *clientcli.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clientcli.New(&clientcli.Config{Endpoint: server.URL, Owner: "alice"})
	require.NoError(t, err)
	return client
}

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestNew(t *testing.T) {
	t.Run("nil config is rejected", func(t *testing.T) {
		_, err := clientcli.New(nil)
		assert.ErrorIs(t, err, clientcli.ErrConfigRequired)
	})

	t.Run("trailing slash is normalized", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:5809/", Owner: "alice"})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestClient_Upload(t *testing.T) {
	t.Run("posts multipart form and decodes the record", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/objects", r.URL.Path)

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "sunset", r.FormValue("name"))
			assert.Equal(t, "alice", r.FormValue("owner"))
			assert.Equal(t, "golden hour", r.FormValue("description"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer func() { _ = file.Close() }()

			data, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "jpeg bytes", string(data))
			assert.Equal(t, "sunset.jpg", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"name":"sunset","extension":"jpg","owner":"alice","description":"golden hour","created_at":"2026-01-15T10:30:45Z","modified_at":"2026-01-15T10:30:45Z"}`))
		})

		localPath := writeTempFile(t, "sunset.jpg", []byte("jpeg bytes"))

		result, err := client.Upload(context.Background(), clientcli.UploadOptions{
			LocalPath:   localPath,
			Description: "golden hour",
		})
		require.NoError(t, err)
		assert.Equal(t, "sunset", result.Name)
		assert.Equal(t, "jpg", result.Extension)
		assert.Equal(t, localPath, result.LocalPath)
	})

	t.Run("name defaults to file name without extension", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "holiday-clip", r.FormValue("name"))

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"name":"holiday-clip","extension":"mp4","owner":"alice"}`))
		})

		localPath := writeTempFile(t, "holiday-clip.mp4", []byte("mp4 bytes"))

		_, err := client.Upload(context.Background(), clientcli.UploadOptions{LocalPath: localPath})
		assert.NoError(t, err)
	})

	t.Run("conflict surfaces as ErrConflict", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"conflict","message":"An object with the same name already exists"}`))
		})

		localPath := writeTempFile(t, "sunset.jpg", []byte("x"))

		_, err := client.Upload(context.Background(), clientcli.UploadOptions{LocalPath: localPath})
		assert.ErrorIs(t, err, clientcli.ErrConflict)

		var apiErr *clientcli.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "An object with the same name already exists", apiErr.Message)
	})

	t.Run("missing local path", func(t *testing.T) {
		client := newClient(t, func(_ http.ResponseWriter, _ *http.Request) {})

		_, err := client.Upload(context.Background(), clientcli.UploadOptions{})
		assert.ErrorIs(t, err, clientcli.ErrEmptyPath)
	})

	t.Run("missing owner without config default", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:5809"})
		require.NoError(t, err)

		localPath := writeTempFile(t, "sunset.jpg", []byte("x"))

		_, err = client.Upload(context.Background(), clientcli.UploadOptions{LocalPath: localPath})
		assert.ErrorIs(t, err, clientcli.ErrOwnerRequired)
	})
}

func TestClient_Update(t *testing.T) {
	t.Run("puts to the object path", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/objects/sunset", r.URL.Path)

			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "alice", r.FormValue("owner"))
			assert.Equal(t, "blue hour", r.FormValue("description"))

			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"name":"sunset","extension":"jpg","owner":"alice","description":"blue hour"}`))
		})

		result, err := client.Update(context.Background(), clientcli.UpdateOptions{
			Name:        "sunset",
			Description: "blue hour",
		})
		require.NoError(t, err)
		assert.Equal(t, "blue hour", result.Description)
	})

	t.Run("missing name", func(t *testing.T) {
		client := newClient(t, func(_ http.ResponseWriter, _ *http.Request) {})

		_, err := client.Update(context.Background(), clientcli.UpdateOptions{Description: "x"})
		assert.ErrorIs(t, err, clientcli.ErrEmptyName)
	})
}

func TestClient_Remove(t *testing.T) {
	t.Run("continues past failures", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "alice", r.URL.Query().Get("owner"))

			if r.URL.Path == "/api/objects/ghost" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"not_found","message":"Object not found"}`))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		results, err := client.Remove(context.Background(), clientcli.RemoveOptions{
			Names: []string{"sunset", "ghost", "clip"},
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.True(t, results[0].Removed)
		assert.False(t, results[1].Removed)
		assert.ErrorIs(t, results[1].Err, clientcli.ErrNotFound)
		assert.True(t, results[2].Removed)

		assert.True(t, clientcli.HasRemoveErrors(results))
	})

	t.Run("no names", func(t *testing.T) {
		client := newClient(t, func(_ http.ResponseWriter, _ *http.Request) {})

		_, err := client.Remove(context.Background(), clientcli.RemoveOptions{})
		assert.ErrorIs(t, err, clientcli.ErrNoNames)
	})
}

func TestClient_Fetch(t *testing.T) {
	serve := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/objects/sunset", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("owner"))

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("File-Name", "sunset.jpg")
		w.Header().Set("File-Owner", "alice")
		_, _ = w.Write([]byte("jpeg bytes"))
	}

	t.Run("writes the payload to a local file", func(t *testing.T) {
		client := newClient(t, serve)
		localPath := filepath.Join(t.TempDir(), "out.jpg")

		result, reader, err := client.Fetch(context.Background(), clientcli.FetchOptions{
			Name:      "sunset",
			LocalPath: localPath,
		})
		require.NoError(t, err)
		assert.Nil(t, reader)

		assert.Equal(t, "sunset.jpg", result.FileName)
		assert.Equal(t, "image/jpeg", result.ContentType)
		assert.Equal(t, int64(len("jpeg bytes")), result.Size)

		data, err := os.ReadFile(localPath)
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(data))
	})

	t.Run("stdout mode returns the body", func(t *testing.T) {
		client := newClient(t, serve)

		result, reader, err := client.Fetch(context.Background(), clientcli.FetchOptions{
			Name:      "sunset",
			LocalPath: "-",
		})
		require.NoError(t, err)
		require.NotNil(t, reader)
		defer func() { _ = reader.Close() }()

		assert.Equal(t, "-", result.LocalPath)

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(data))
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"Invalid owner for the specified object"}`))
		})

		_, _, err := client.Fetch(context.Background(), clientcli.FetchOptions{Name: "sunset"})
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})
}

func TestClient_Queries(t *testing.T) {
	items := `[{"name":"a","owner":"alice","created_at":"2026-01-01T00:00:00Z","modified_at":"2026-01-01T00:00:00Z"},
	{"name":"b","owner":"bob","created_at":"2026-01-05T00:00:00Z","modified_at":"2026-01-05T00:00:00Z"}]`

	t.Run("by date", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/query/by-date", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "alice", q.Get("owner"))
			assert.Equal(t, "2026-01-01", q.Get("start"))
			assert.Equal(t, "2026-02-01", q.Get("end"))
			assert.Equal(t, "desc", q.Get("sort"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(items))
		})

		got, err := client.QueryByDate(context.Background(), clientcli.DateQueryOptions{
			Start: "2026-01-01",
			End:   "2026-02-01",
			Sort:  "desc",
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Name)
	})

	t.Run("by owners repeats the owner param", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/query/by-owners", r.URL.Path)
			assert.Equal(t, []string{"alice", "bob"}, r.URL.Query()["owner"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(items))
		})

		got, err := client.QueryByOwners(context.Background(), clientcli.OwnerQueryOptions{
			Owners: []string{"alice", "bob"},
			Start:  "2026-01-01",
			End:    "2026-02-01",
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty owner set", func(t *testing.T) {
		client := newClient(t, func(_ http.ResponseWriter, _ *http.Request) {})

		_, err := client.QueryByOwners(context.Background(), clientcli.OwnerQueryOptions{
			Start: "2026-01-01",
			End:   "2026-02-01",
		})
		assert.ErrorIs(t, err, clientcli.ErrOwnerRequired)
	})

	t.Run("bad request surfaces the server message", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_input","message":"date bound is required"}`))
		})

		_, err := client.QueryByDate(context.Background(), clientcli.DateQueryOptions{
			Start: "2026-01-01",
			End:   "",
		})
		require.Error(t, err)

		var apiErr *clientcli.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "date bound is required", apiErr.Message)
	})
}
