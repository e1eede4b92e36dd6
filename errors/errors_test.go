package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "wrapped: %d", 42)

	assert.Contains(t, wrapped.Error(), "wrapped: 42")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestUnknownClass(t *testing.T) {
	err := UnknownClass("Texture", "Sprite.set_texture")
	require.Error(t, err)

	assert.True(t, Is(err, ErrUnknownClass))
	assert.Contains(t, err.Error(), `"Texture"`)
	assert.Contains(t, err.Error(), "Sprite.set_texture")
	assert.NotEmpty(t, GetAllHints(err))
}

func TestUnknownMethod(t *testing.T) {
	err := UnknownMethod("Node", "get_name")
	assert.True(t, Is(err, ErrUnknownMethod))
	assert.Equal(t, "Node.get_name: unknown method", err.Error())
}

func TestIsSchemaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unknown class", UnknownClass("A", "B"), true},
		{"unknown method", UnknownMethod("A", "b"), true},
		{"schema", Wrap(ErrSchema, "two roots"), true},
		{"wrapped twice", fmt.Errorf("outer: %w", Wrap(ErrSchema, "inner")), true},
		{"collision is not schema", Wrap(ErrNameCollision, "x"), false},
		{"unrelated", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSchemaError(tt.err))
		})
	}
}

func TestJoinKeepsSentinels(t *testing.T) {
	err := Join(Wrap(ErrUnresolved, "Node.get_name"), Wrap(ErrUnresolved, "Node.set_name"))
	assert.True(t, Is(err, ErrUnresolved))
	assert.Contains(t, err.Error(), "Node.get_name")
	assert.Contains(t, err.Error(), "Node.set_name")
}
