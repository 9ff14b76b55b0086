package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"probe-go/internal/cli"

	"github.com/stretchr/testify/assert"
)

func execute(args ...string) (int, string, string) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	code := cli.Execute(cmd)
	return code, stdout.String(), stderr.String()
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	code, stdout, _ := execute("-m", "3", "-d", "0", server.URL)

	assert.Equal(t, cli.ExitFailure, code)
	assert.Equal(t, int32(3), hits.Load())
	assert.Contains(t, stdout, "Attempts: 3")
	assert.Contains(t, stdout, "Retries: 2")
}

func TestSucceedsOnFirstAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"state":"up"}`))
	}))
	defer server.Close()

	code, stdout, _ := execute("--status", "201", "--text", `"state":"up"`, server.URL)

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout, "Attempt 1: status 201")
	assert.Contains(t, stdout, "Result: success")
}

func TestInvalidArguments(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "missing url", args: nil},
		{name: "status out of range", args: []string{"-s", "700", "http://localhost"}},
		{name: "negative delay", args: []string{"-d", "-5", "http://localhost"}},
		{name: "negative attempts", args: []string{"-m", "-1", "http://localhost"}},
		{name: "unsupported scheme", args: []string{"gopher://localhost"}},
		{name: "unknown flag", args: []string{"--bogus", "http://localhost"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := execute(tc.args...)

			assert.Equal(t, cli.ExitInvalidArgs, code)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestConfigCommand(t *testing.T) {
	code, stdout, _ := execute("config", "-s", "204", "-d", "1m", "http://localhost")

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout, "status: 204")
	assert.Contains(t, stdout, "delay: 1m0s")
}

func TestVersionFlag(t *testing.T) {
	code, stdout, _ := execute("--version")

	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout, "v0.1.0")
}
