package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckContext(t *testing.T) {
	t.Run("live context passes", func(t *testing.T) {
		assert.NoError(t, CheckContext(context.Background(), "indexing"))
	})

	t.Run("canceled context fails with Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := CheckContext(ctx, "indexing")
		require.Error(t, err)
		assert.Equal(t, Canceled, Code(err))
		assert.Contains(t, err.Error(), "indexing canceled")
	})
}
