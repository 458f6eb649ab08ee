package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_PassesVisualizeFlag(t *testing.T) {
	var got []Kwargs
	c := New("test", func(ctx context.Context, path string, kw Kwargs) (any, error) {
		got = append(got, kw)
		return map[string]any{"path": path}, nil
	})

	raw, err := c.Invoke(context.Background(), "/data/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"path": "/data/a.pdf"}, raw)
	require.Len(t, got, 1)
	v, ok := got[0].Bool(KwVisualize)
	assert.True(t, ok)
	assert.False(t, v)
}

func TestInvoke_RetriesWithoutKeywordOnMismatch(t *testing.T) {
	calls := 0
	c := New("test", func(ctx context.Context, path string, kw Kwargs) (any, error) {
		calls++
		if err := UnexpectedKeyword(kw); err != nil {
			return nil, err
		}
		return "ok", nil
	})

	raw, err := c.Invoke(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "ok", raw)
	assert.Equal(t, 2, calls)
}

func TestInvoke_OtherErrorsPropagateWithoutRetry(t *testing.T) {
	boom := errors.New("engine crashed")
	calls := 0
	c := New("test", func(ctx context.Context, path string, kw Kwargs) (any, error) {
		calls++
		return nil, boom
	})

	_, err := c.Invoke(context.Background(), "a.png")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestInvoke_SecondMismatchPropagates(t *testing.T) {
	calls := 0
	c := New("test", func(ctx context.Context, path string, kw Kwargs) (any, error) {
		calls++
		return nil, ErrSignatureMismatch
	})

	_, err := c.Invoke(context.Background(), "a.png")
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Equal(t, 2, calls)
}

func TestUnexpectedKeyword(t *testing.T) {
	assert.NoError(t, UnexpectedKeyword(nil))
	assert.NoError(t, UnexpectedKeyword(Kwargs{KwVisualize: false}, KwVisualize))

	err := UnexpectedKeyword(Kwargs{KwVisualize: false, KwConfigPath: "x"}, KwVisualize)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Contains(t, err.Error(), KwConfigPath)
}
