package segment

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 10*time.Millisecond, func() { changed <- struct{}{} })
	}()
	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	_, err := NewStore(path).Append(New("room.pcd", "a", Wall, []int{0}))
	test.That(t, err, test.ShouldBeNil)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout")
	}

	cancel()
	select {
	case err := <-done:
		test.That(t, err, test.ShouldBeNil)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch must return after cancel")
	}
}
