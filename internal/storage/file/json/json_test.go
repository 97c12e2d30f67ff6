package json

import (
	"errors"
	"testing"

	"github.com/drakos74/face-bench/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name     string    `json:"name"`
	Accuracy []float64 `json:"accuracy"`
}

func TestPersistence(t *testing.T) {

	type test struct {
		shard storage.Shard
	}

	tests := map[string]test{
		"blob": {
			shard: BlobShard(t.TempDir(), storage.ReportsDir),
		},
		"local": {
			shard: LocalShard(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store, err := tt.shard("svm")
			require.NoError(t, err)

			k := storage.Key{Run: "run", Pipeline: "svm", Label: "report"}
			err = store.Load(k, &payload{})
			assert.True(t, errors.Is(err, storage.NotFoundErr), "%v", err)

			in := payload{Name: "svm", Accuracy: []float64{90, 92.5}}
			require.NoError(t, store.Store(k, in))

			var out payload
			require.NoError(t, store.Load(k, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestVoid(t *testing.T) {
	store, err := storage.VoidShard()("any")
	require.NoError(t, err)
	k := storage.Key{Run: "run"}
	assert.NoError(t, store.Store(k, payload{}))
	assert.True(t, errors.Is(store.Load(k, &payload{}), storage.NotFoundErr))
	assert.Equal(t, "svm_run_report", storage.Key{Run: "run", Pipeline: "svm", Label: "report"}.Path())
}
