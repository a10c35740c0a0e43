package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mapkeeper/internal/server/auth"
	"github.com/dmitrijs2005/mapkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFlag(t *testing.T) {
	assert.Equal(t, "table-7", clientFlag([]string{"-s", "k", "-client", "table-7"}))
	assert.Equal(t, "t2", clientFlag([]string{"-client=t2"}))
	assert.Equal(t, "", clientFlag([]string{"-s", "k"}))
}

func TestIssue(t *testing.T) {
	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}

	var buf bytes.Buffer
	require.NoError(t, issue(cfg, "table-7", &buf))

	id, err := auth.GetClientIDFromToken(strings.TrimSpace(buf.String()), []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "table-7", id)

	assert.Error(t, issue(cfg, "", &buf))
}
