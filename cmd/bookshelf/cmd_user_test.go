package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPassword_Piped(t *testing.T) {
	p, err := readPassword(strings.NewReader("hunter2\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", p)

	p, err = readPassword(strings.NewReader("no-newline"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "no-newline", p)

	_, err = readPassword(strings.NewReader("\n"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRootCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{
		"serve", "route:list", "migrate", "migrate:rollback", "migrate:status",
		"seed", "user:promote", "user:create-admin",
	})
}
