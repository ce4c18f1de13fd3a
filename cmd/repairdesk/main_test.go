package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"repairdesk/internal/cache"
	"repairdesk/internal/httpapi"
	"repairdesk/internal/service"
	"repairdesk/internal/store/memory"
)

const createForm = `
customer:
  name: A
  phone: "555"
device:
  brand: B
  model: M
  receivedDate: "2024-01-05"
problem:
  complaintType: hardware
  description: cracked
  productRate: 200
  serviceCharge: 50
`

var serviceIDPattern = regexp.MustCompile(`Service id: (\S+)`)

func newBackend(t *testing.T) {
	t.Helper()

	repo := memory.New()
	svc := service.New(repo, cache.NoopTicketCache{}, time.Minute)
	auth := httpapi.NewAuthManager("cli-test-secret-0123456789abcdef", time.Hour, repo)
	srv := httptest.NewServer(httpapi.New(svc, auth, "*", false).Handler())
	t.Cleanup(srv.Close)

	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("API_TOKEN", "")
	t.Setenv("TICKET_LOOKUP", "auto")
}

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func createTicket(t *testing.T) string {
	t.Helper()
	code, stdout, stderr := runCLI("create", "-f", writeFile(t, "form.yaml", createForm))
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "Service added successfully")

	match := serviceIDPattern.FindStringSubmatch(stdout)
	require.Len(t, match, 2, stdout)
	return match[1]
}

func TestCreateListAndShow(t *testing.T) {
	newBackend(t)
	id := createTicket(t)

	code, stdout, stderr := runCLI("list")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, id)
	require.Contains(t, stdout, "pending")
	require.Contains(t, stdout, "250")

	code, stdout, stderr = runCLI("show", id)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "2024-01-05")
	require.Contains(t, stdout, "PENDING")
}

func TestUpdateMarksPaidWithManualTotal(t *testing.T) {
	newBackend(t)
	id := createTicket(t)

	code, stdout, stderr := runCLI("update", id, "--paid", "--manual-total", "120")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "Service updated successfully")
	require.Contains(t, stdout, "Status: completed-paid  Amount: 120")

	code, stdout, _ = runCLI("list", "--status", "completed-paid")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, id)

	code, stdout, _ = runCLI("list", "--status", "pending")
	require.Equal(t, 0, code)
	require.NotContains(t, stdout, id)
}

func TestUpdateAppliesPatchFile(t *testing.T) {
	newBackend(t)
	id := createTicket(t)

	patch := writeFile(t, "patch.yaml", "problem:\n  serviceCharge: 80\ndevice:\n  color: black\n")
	code, stdout, stderr := runCLI("update", id, "-f", patch)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "Status: pending  Amount: 280")

	code, stdout, _ = runCLI("show", id)
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "black")
	require.Contains(t, stdout, "cracked")
}

func TestShowMissingTicketPointsBackToList(t *testing.T) {
	newBackend(t)

	code, stdout, stderr := runCLI("show", "does-not-exist")
	require.Equal(t, exitFailure, code)
	require.Contains(t, stderr, "Service not found")
	require.Contains(t, stdout, "repairdesk list")
}

func TestCreateWithMissingFieldsIsUsageError(t *testing.T) {
	newBackend(t)

	form := writeFile(t, "bad.yaml", "customer:\n  name: A\n")
	code, _, stderr := runCLI("create", "-f", form)
	require.Equal(t, exitUsage, code)
	require.Contains(t, stderr, "Please enter mobile number")
	require.Contains(t, stderr, "Please select received date")
}

func TestUsageErrors(t *testing.T) {
	newBackend(t)

	cases := [][]string{
		{},
		{"bogus"},
		{"create"},
		{"show"},
		{"update", "abc", "--paid", "--unpaid"},
		{"update", "abc", "--manual-total", "lots"},
		{"list", "--status", "archived"},
		{"login", "-u", "admin"},
	}
	for _, args := range cases {
		code, _, _ := runCLI(args...)
		require.Equal(t, exitUsage, code, "args %v", args)
	}
}

func TestUnreachableBackendIsFailure(t *testing.T) {
	newBackend(t)
	t.Setenv("API_BASE_URL", "http://127.0.0.1:1")

	code, _, stderr := runCLI("list")
	require.Equal(t, exitFailure, code)
	require.Contains(t, stderr, "backend unreachable")
}
