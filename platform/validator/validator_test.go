package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `validate:"required,max=10"`
	Kind  string   `validate:"required,kind"`
	Tags  []string `validate:"dive,kind"`
	Email string   `validate:"omitempty,email"`
}

func TestRegisterEnum(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterEnum("kind", func(s string) bool { return s == "a" || s == "b" }))

	assert.NoError(t, v.Struct(sample{Name: "x", Kind: "a", Tags: []string{"b"}}))

	err := v.Struct(sample{Name: "x", Kind: "c", Tags: []string{"a", "z"}, Email: "nope"})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Contains(t, msgs, "kind: kind")
	assert.Contains(t, msgs, "email: email")
	assert.Len(t, msgs, 3)
}

func TestMessagesRequired(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterEnum("kind", func(string) bool { return true }))

	msgs := Messages(v.Struct(sample{}))
	assert.Equal(t, []string{"name: required", "kind: required"}, msgs)
	assert.Nil(t, Messages(nil))
}
