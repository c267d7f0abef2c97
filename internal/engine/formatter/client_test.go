package formatter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"arrowstyle/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorker struct {
	mu      sync.Mutex
	calls   []Request
	respond func(Request) (Response, error)
	closed  bool
}

func (f *fakeWorker) Do(_ context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeWorker) Close() error {
	f.closed = true
	return nil
}

func TestClientFormatCachesByCodePathAndOverride(t *testing.T) {
	w := &fakeWorker{respond: func(req Request) (Response, error) {
		return Response{Success: true, Formatted: strings.TrimSpace(req.Code), LineLength: len(strings.TrimSpace(req.Code))}, nil
	}}
	c := NewClient(w)
	ctx := context.Background()

	first := c.Format(ctx, "const a = 1", "a.ts", map[string]any{"printWidth": 70})
	second := c.Format(ctx, "const a = 1", "a.ts", map[string]any{"printWidth": 70})
	third := c.Format(ctx, "const a = 1", "a.ts", map[string]any{"printWidth": 60})

	assert.Equal(t, first, second)
	assert.False(t, first.Fallback)
	assert.Equal(t, 11, third.LineLength)
	require.Len(t, w.calls, 2)
	assert.Equal(t, RequestFormat, w.calls[0].Type)
	assert.Equal(t, 60, w.calls[1].ConfigOverride["printWidth"])
}

func TestClientFormatDefaultsFilePath(t *testing.T) {
	w := &fakeWorker{respond: func(Request) (Response, error) {
		return Response{Success: true, Formatted: "x", LineLength: 1}, nil
	}}
	c := NewClient(w)
	c.Format(context.Background(), "x", "", nil)
	require.Len(t, w.calls, 1)
	assert.Equal(t, "file.ts", w.calls[0].FilePath)
}

func TestClientFormatFallsBack(t *testing.T) {
	cases := []struct {
		name    string
		respond func(Request) (Response, error)
	}{
		{"worker error", func(Request) (Response, error) {
			return Response{}, errors.New(errors.CodeFormatter, "boom")
		}},
		{"unsuccessful response", func(Request) (Response, error) {
			return Response{Success: false, Error: "SyntaxError"}, nil
		}},
		{"empty response", func(Request) (Response, error) {
			return Response{Success: true}, nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(&fakeWorker{respond: tc.respond})
			res := c.Format(context.Background(), "foo(\n  bar)", "a.ts", nil)
			assert.True(t, res.Fallback)
			assert.Error(t, res.Err)
			assert.Equal(t, "foo(\n  bar)", res.Formatted)
			assert.True(t, res.IsMultiline)
			assert.Equal(t, 4, res.LineLength)
		})
	}
}

func TestDisabledClient(t *testing.T) {
	c := NewClient(nil)
	assert.False(t, c.Enabled())
	assert.False(t, c.Available(context.Background()))

	res := c.Format(context.Background(), "const x = '测试'", "a.ts", nil)
	assert.True(t, res.Fallback)
	assert.True(t, errors.IsCode(res.Err, errors.CodeFormatter))
	assert.False(t, res.IsMultiline)
	assert.Equal(t, 16, res.LineLength)
	assert.Empty(t, c.ResolveConfig(context.Background(), ""))
}

func TestClientResolveConfig(t *testing.T) {
	w := &fakeWorker{respond: func(req Request) (Response, error) {
		if req.Type != RequestResolveConfig {
			return Response{Success: false}, nil
		}
		return Response{Success: true, Config: map[string]any{"printWidth": float64(100)}}, nil
	}}
	c := NewClient(w)
	cfg := c.ResolveConfig(context.Background(), "")
	assert.Equal(t, float64(100), cfg["printWidth"])
	assert.Equal(t, "package.json", w.calls[0].FilePath)
	assert.True(t, c.Available(context.Background()))

	require.NoError(t, c.Close())
	assert.True(t, w.closed)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "x:a.ts:", cacheKey("x", "a.ts", nil))
	assert.Equal(t, `x:a.ts:{"printWidth":80}`, cacheKey("x", "a.ts", map[string]any{"printWidth": 80}))
}

func TestMaterializeWorker(t *testing.T) {
	dir := t.TempDir()
	path, err := MaterializeWorker(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, WorkerScript(), data)

	again, err := MaterializeWorker(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, []string{"node", path}, DefaultCommand(path))
}

func TestSubprocessWithoutCommand(t *testing.T) {
	s := NewSubprocess(nil, SubprocessOptions{})
	_, err := s.Do(context.Background(), Request{Type: RequestFormat, Code: "x"})
	assert.True(t, errors.IsCode(err, errors.CodeFormatter))
	assert.NoError(t, s.Close())
}
