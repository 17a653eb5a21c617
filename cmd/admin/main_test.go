package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "admin.db")

	exec := func(stdin string, args ...string) (string, error) {
		var stdout, stderr bytes.Buffer
		err := run(args, strings.NewReader(stdin), &stdout, &stderr)
		return stdout.String(), err
	}

	t.Run("adduser with flag password", func(t *testing.T) {
		out, err := exec("", "adduser", "-user", "alice", "-email", "alice@example.com", "-password", "secret", "-db", dbPath)
		require.NoError(t, err)
		assert.Contains(t, out, "User alice created successfully")
	})

	t.Run("adduser prompts for password", func(t *testing.T) {
		out, err := exec("prompted-secret\n", "adduser", "-user", "bob", "-db", dbPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Password: ")
		assert.Contains(t, out, "User bob created successfully")
	})

	t.Run("duplicate user", func(t *testing.T) {
		_, err := exec("", "adduser", "-user", "alice", "-password", "x", "-db", dbPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("missing user flag", func(t *testing.T) {
		_, err := exec("", "adduser", "-db", dbPath)
		assert.EqualError(t, err, "missing required flags: user")
	})

	t.Run("empty prompted password", func(t *testing.T) {
		_, err := exec("   \n", "adduser", "-user", "carol", "-db", dbPath)
		assert.EqualError(t, err, "password cannot be empty")
	})

	t.Run("categories", func(t *testing.T) {
		out, err := exec("", "addcategory", "-name", "Food", "-db", dbPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Category Food created successfully")

		_, err = exec("", "addcategory", "-name", "Food", "-db", dbPath)
		require.Error(t, err)

		_, err = exec("", "addcategory", "-name", "Travel", "-db", dbPath)
		require.NoError(t, err)

		out, err = exec("", "categories", "-db", dbPath)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "Food")
		assert.Contains(t, lines[2], "Travel")
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := exec("", "dropdb")
		assert.EqualError(t, err, `unknown command "dropdb"`)
	})

	t.Run("no command", func(t *testing.T) {
		_, err := exec("")
		assert.EqualError(t, err, "missing command")
	})
}
