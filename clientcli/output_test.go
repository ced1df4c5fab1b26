package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault/mediavault/clientcli"
)

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		formatter := clientcli.NewFormatter(true, false)
		_, ok := formatter.(*clientcli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter", func(t *testing.T) {
		formatter := clientcli.NewFormatter(false, false)
		_, ok := formatter.(*clientcli.HumanFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		formatter := clientcli.NewFormatter(false, true)
		hf, ok := formatter.(*clientcli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatUpload(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 30, 45, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		formatter := &clientcli.HumanFormatter{}
		result := &clientcli.UploadResult{
			Name:        "sunset",
			Extension:   "jpg",
			Owner:       "alice",
			Description: "golden hour",
			CreatedAt:   created,
			ModifiedAt:  created,
		}

		var buf bytes.Buffer
		err := formatter.FormatUpload(&buf, result)
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "Stored: sunset.jpg (owner alice)")
		assert.Contains(t, output, "Description: golden hour")
		assert.Contains(t, output, "Created:  2026-01-15 10:30:45")
	})

	t.Run("quiet mode", func(t *testing.T) {
		formatter := &clientcli.HumanFormatter{Quiet: true}
		result := &clientcli.UploadResult{Name: "sunset", Extension: "jpg", Owner: "alice"}

		var buf bytes.Buffer
		err := formatter.FormatUpload(&buf, result)
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestHumanFormatter_FormatFetch(t *testing.T) {
	formatter := &clientcli.HumanFormatter{}
	result := &clientcli.FetchResult{
		Name:        "sunset",
		FileName:    "sunset.jpg",
		ContentType: "image/jpeg",
		LocalPath:   "out.jpg",
		Size:        2048,
	}

	var buf bytes.Buffer
	err := formatter.FormatFetch(&buf, result)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Fetched: sunset.jpg -> out.jpg (2.0 KB)")
	assert.Contains(t, output, "Content-Type: image/jpeg")
}

func TestHumanFormatter_FormatRemove(t *testing.T) {
	formatter := &clientcli.HumanFormatter{}
	results := []clientcli.RemoveResult{
		{Name: "sunset", Removed: true},
		{Name: "ghost", Removed: false, Err: errors.New("not found")},
	}

	var buf bytes.Buffer
	err := formatter.FormatRemove(&buf, results)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Removed: sunset")
	assert.Contains(t, output, "Error: ghost - not found")
}

func TestHumanFormatter_FormatQuery(t *testing.T) {
	t.Run("with items", func(t *testing.T) {
		formatter := &clientcli.HumanFormatter{}
		items := []clientcli.QueryItem{
			{
				Name:      "beach",
				Owner:     "alice",
				CreatedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
			},
			{
				Name:      "city",
				Owner:     "bob",
				CreatedAt: time.Date(2026, 1, 14, 9, 15, 0, 0, time.UTC),
			},
		}

		var buf bytes.Buffer
		err := formatter.FormatQuery(&buf, items)
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "NAME")
		assert.Contains(t, output, "OWNER")
		assert.Contains(t, output, "CREATED")
		assert.Contains(t, output, "beach")
		assert.Contains(t, output, "city")
		assert.Contains(t, output, "2 object(s)")
	})

	t.Run("empty result", func(t *testing.T) {
		formatter := &clientcli.HumanFormatter{}

		var buf bytes.Buffer
		err := formatter.FormatQuery(&buf, nil)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "No objects found")
	})
}

func TestHumanFormatter_FormatProfileList(t *testing.T) {
	formatter := &clientcli.HumanFormatter{}
	profiles := []clientcli.Profile{
		{Name: "prod", Endpoint: "https://vault.example.com", Owner: "alice"},
		{Name: "local", Endpoint: "http://localhost:5809"},
	}

	var buf bytes.Buffer
	err := formatter.FormatProfileList(&buf, profiles, "prod")
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "* prod")
	assert.Contains(t, output, "local")
	assert.Contains(t, output, "(not set)")
}

func TestJSONFormatter_FormatUpload(t *testing.T) {
	formatter := &clientcli.JSONFormatter{}
	now := time.Now()

	result := &clientcli.UploadResult{
		LocalPath:  "sunset.jpg",
		Name:       "sunset",
		Extension:  "jpg",
		Owner:      "alice",
		CreatedAt:  now,
		ModifiedAt: now,
	}

	var buf bytes.Buffer
	err := formatter.FormatUpload(&buf, result)
	require.NoError(t, err)

	var output map[string]any
	err = json.Unmarshal(buf.Bytes(), &output)
	require.NoError(t, err)

	assert.Equal(t, "sunset.jpg", output["local_path"])
	assert.Equal(t, "sunset", output["name"])
	assert.Equal(t, "jpg", output["extension"])
	assert.Equal(t, "alice", output["owner"])
}

func TestJSONFormatter_FormatRemove(t *testing.T) {
	formatter := &clientcli.JSONFormatter{}
	results := []clientcli.RemoveResult{
		{Name: "sunset", Removed: true},
		{Name: "ghost", Removed: false, Err: errors.New("not found")},
	}

	var buf bytes.Buffer
	err := formatter.FormatRemove(&buf, results)
	require.NoError(t, err)

	var output map[string][]map[string]any
	err = json.Unmarshal(buf.Bytes(), &output)
	require.NoError(t, err)

	require.Len(t, output["results"], 2)
	assert.Equal(t, "sunset", output["results"][0]["name"])
	assert.Equal(t, true, output["results"][0]["removed"])
	assert.Equal(t, "ghost", output["results"][1]["name"])
	assert.Equal(t, false, output["results"][1]["removed"])
	assert.Equal(t, "not found", output["results"][1]["error"])
}

func TestJSONFormatter_FormatQuery(t *testing.T) {
	formatter := &clientcli.JSONFormatter{}

	var buf bytes.Buffer
	err := formatter.FormatQuery(&buf, nil)
	require.NoError(t, err)

	var output []any
	err = json.Unmarshal(buf.Bytes(), &output)
	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestJSONFormatter_FormatError(t *testing.T) {
	formatter := &clientcli.JSONFormatter{}

	var buf bytes.Buffer
	err := formatter.FormatError(&buf, errors.New("test error"))
	require.NoError(t, err)

	var output map[string]string
	err = json.Unmarshal(buf.Bytes(), &output)
	require.NoError(t, err)

	assert.Equal(t, "test error", output["error"])
}
