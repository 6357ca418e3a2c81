package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlash_Drain(t *testing.T) {
	f := NewFlash()
	f.Error("Token not found")
	f.Success("Welcome back")

	msgs := f.Drain()
	assert.Equal(t, []Message{
		{Kind: KindError, Text: "Token not found"},
		{Kind: KindSuccess, Text: "Welcome back"},
	}, msgs)

	assert.Empty(t, f.Drain(), "drain clears the queue")
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Success("Logged in")
	c.Error("Invalid credentials")
	c.Info("Open the link")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Logged in")
	assert.Contains(t, lines[1], "Invalid credentials")
	assert.Contains(t, lines[2], "Open the link")
}
