package notify

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Widget", truncate("Widget", 10))
	assert.Equal(t, "Lorem ipsum...", truncate("Lorem ipsum dolor sit", 14))
}

func TestTruncate_MultiByteNames(t *testing.T) {
	name := "Espada élfica de obsidiana ñandú"
	got := truncate(name, 12)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Espada él...", got)
	assert.Equal(t, "Ñandú", truncate("Ñandú", 5), "cabe en runas aunque ocupe más bytes")
}
