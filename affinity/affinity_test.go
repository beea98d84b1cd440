package affinity_test

import (
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-threads/affinity"
	"github.com/momentics/hioload-threads/api"
)

func TestSetAffinityRejectsBadCPU(t *testing.T) {
	for _, cpu := range []int{-1, runtime.NumCPU()} {
		err := affinity.SetAffinity(cpu)
		require.Error(t, err, "cpu %d is out of range", cpu)
		var native *api.NativeError
		if assert.ErrorAs(t, err, &native) {
			assert.Equal(t, syscall.EINVAL, native.Errno)
		}
	}
}
