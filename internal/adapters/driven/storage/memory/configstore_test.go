package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seed(t *testing.T) {
	store := NewConfigStore(map[string]any{"retrieval.top_k": 5})

	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "llama3"))
	require.NoError(t, store.Set("llm.model", "mistral"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "mistral", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"s":     "text",
		"i":     7,
		"i64":   int64(8),
		"f":     2.5,
		"b":     true,
		"wrong": []string{"x"},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("s"), "text"},
		{"string missing", store.GetString("missing"), ""},
		{"string wrong type", store.GetString("i"), ""},
		{"int", store.GetInt("i"), 7},
		{"int from int64", store.GetInt("i64"), 8},
		{"int from float", store.GetInt("f"), 2},
		{"int wrong type", store.GetInt("wrong"), 0},
		{"float", store.GetFloat("f"), 2.5},
		{"float from int", store.GetFloat("i"), 7.0},
		{"float missing", store.GetFloat("missing"), 0.0},
		{"bool", store.GetBool("b"), true},
		{"bool wrong type", store.GetBool("s"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_SaveLoadNoop(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("grading.workers", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("grading.workers")
		}()
	}
	wg.Wait()
}
