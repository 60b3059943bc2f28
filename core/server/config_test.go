package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresAuth(t *testing.T) {
	assert.False(t, Config{}.RequiresAuth())
	assert.True(t, Config{ApiKey: "secret"}.RequiresAuth())
}
