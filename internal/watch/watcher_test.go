package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_DebouncesStoryEdits(t *testing.T) {
	dir := t.TempDir()
	story := filepath.Join(dir, "story.yaml")
	require.NoError(t, os.WriteFile(story, []byte("name: a\n"), 0644))

	changes := make(chan []string, 4)
	w, err := New(story, "", func(paths []string) { changes <- paths }, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(story, []byte("name: b\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case paths := <-changes:
		assert.Equal(t, []string{story}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload reported")
	}

	select {
	case paths := <-changes:
		t.Fatalf("unexpected second reload: %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 1, w.Stats().Reloads)
}

func TestWatcher_DataDir(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.Mkdir(data, 0755))
	story := filepath.Join(dir, "story.yaml")
	require.NoError(t, os.WriteFile(story, []byte("name: a\n"), 0644))

	changes := make(chan []string, 4)
	w, err := New(story, data, func(paths []string) { changes <- paths }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	csv := filepath.Join(data, "speech_length.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a\n1\n"), 0644))

	select {
	case paths := <-changes:
		assert.Contains(t, paths, csv)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload reported")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	story := filepath.Join(t.TempDir(), "story.yaml")
	require.NoError(t, os.WriteFile(story, nil, 0644))
	w, err := New(story, "", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
	w.Stop()
}
