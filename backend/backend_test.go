package backend_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-threads/api"
	"github.com/momentics/hioload-threads/backend"
)

// skipUnsupported skips the test on build targets served by the stub.
func skipUnsupported(t *testing.T, err error) {
	t.Helper()
	var ne *api.NativeError
	if errors.As(err, &ne) && ne.Errno == syscall.ENOSYS {
		t.Skip("no native backend on this platform")
	}
}

func TestProviderSingleton(t *testing.T) {
	prov := backend.Get()
	require.NotNil(t, prov)
	assert.NotEmpty(t, prov.Name())
	assert.Equal(t, prov, backend.Get())
}

func TestMutexRoundTrip(t *testing.T) {
	m, err := backend.Get().NewMutex()
	if err != nil {
		skipUnsupported(t, err)
		t.Fatalf("NewMutex: %v", err)
	}
	require.NoError(t, m.Lock())
	require.NoError(t, m.Unlock())
	require.NoError(t, m.TryLock())
	require.NoError(t, m.Unlock())
	require.NoError(t, m.Destroy())
}
