package logging

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferWrites(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		writes []string
		want   string
	}{
		{"single write", 64, []string{"hello"}, "hello"},
		{"exact fill then wrap", 10, []string{"abcdefghij", "12345"}, "fghij12345"},
		{"larger than capacity", 5, []string{"0123456789"}, "56789"},
		{"small writes fill exactly", 8, []string{"AA", "BB", "CC", "DD"}, "AABBCCDD"},
		{"small writes wrap", 8, []string{"AA", "BB", "CC", "DD", "EE"}, "BBCCDDEE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRingBuffer(tt.size)
			for _, w := range tt.writes {
				n, err := rb.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}
			assert.Equal(t, tt.want, string(rb.Bytes()))
		})
	}
}

func TestRingBufferDumpToFile(t *testing.T) {
	rb := NewRingBuffer(32)
	_, _ = rb.Write([]byte(`{"msg":"load_complete"}`))

	path := filepath.Join(t.TempDir(), "dump.jsonl")
	require.NoError(t, rb.DumpToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"msg":"load_complete"}`, string(data))
}

func TestRingBufferConcurrent(t *testing.T) {
	rb := NewRingBuffer(1024)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_, _ = rb.Write([]byte("x"))
			}
		}()
	}
	wg.Wait()

	assert.Len(t, rb.Bytes(), 1000)
}
