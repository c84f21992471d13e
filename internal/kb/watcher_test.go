package kb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReimportsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units:\n  - name: u\n    axioms: [A SubClassOf B]\n"), 0o644))

	kb := New()
	_, err := kb.ImportFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(kb, []string{path}, nil)
	require.NoError(t, err)
	imported := make(chan error, 4)
	w.onImport = func(_ string, err error) {
		select {
		case imported <- err:
		default:
		}
	}
	w.debounceDur = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("units:\n  - name: u\n    axioms: [A SubClassOf C]\n"), 0o644))

	select {
	case <-imported:
	case <-time.After(5 * time.Second):
		t.Fatal("file change was not picked up")
	}

	// An editor may produce several events; wait for the final content.
	require.Eventually(t, func() bool {
		u, err := kb.Unit("u")
		return err == nil && len(u.Axioms()) == 1 && u.Axioms()[0].Key() == "A SubClassOf C"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)
	w, err := NewWatcher(New(), nil, nil)
	require.NoError(t, err)
	w.Stop()
}
