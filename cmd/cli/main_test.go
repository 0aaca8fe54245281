package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/cajaledger/internal/infrastructure/auth"
)

func execute(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", server.URL, "--user", "cli-user"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1})

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestConsistencyCmd(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ledger/consistency" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"status":"consistent","consistent":true,"transfer_income":"300.00","transfer_expense":"300.00"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"inconsistent","consistent":false,"message":"diff=10"}`))
	}))
	defer server.Close()

	out, err := execute(t, server, "ledger", "consistency")
	if err != nil || !strings.Contains(out, "PASSED") || !strings.Contains(out, "300.00") {
		t.Fatalf("expected pass, got %q err=%v", out, err)
	}

	status = http.StatusConflict
	out, err = execute(t, server, "ledger", "consistency")
	if err == nil || !strings.Contains(out, "diff=10") {
		t.Fatalf("expected failure with message, got %q err=%v", out, err)
	}
}

func TestRegisterSummaryCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/cash-registers/R1/daily-summary" || r.URL.Query().Get("date") != "2025-12-01" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{"total_income":"500.00","total_expense":"40.00"}`))
	}))
	defer server.Close()

	out, err := execute(t, server, "register", "summary", "R1", "--date", "2025-12-01")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, `"total_income": "500.00"`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRecalcCmdSendsActor(t *testing.T) {
	var gotUser, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotMethod = r.Header.Get("X-User-ID"), r.Method
		_, _ = w.Write([]byte(`{"id":"A1","balance":"10.00"}`))
	}))
	defer server.Close()

	if _, err := execute(t, server, "account", "recalc", "A1"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if gotUser != "cli-user" || gotMethod != http.MethodPost {
		t.Fatalf("expected POST with actor, got %s %q", gotMethod, gotUser)
	}
}

func TestTransferListCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"number":"TR-202512-00001","amount":"300.00","concept":"deposito",` +
			`"origin":{"kind":"caja","id":"A"},"destination":{"kind":"banco","id":"B"},"created_by":"u1"}]`))
	}))
	defer server.Close()

	out, err := execute(t, server, "transfer", "list")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "TR-202512-00001") || !strings.Contains(out, "caja:A") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRequestErrorsSurface(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"failed to calculate balance"}`))
	}))
	defer server.Close()

	_, err := execute(t, server, "register", "balance", "missing")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestTokenCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--user", "cli-user", "token", "--secret", "s3cret", "--ttl", "1h"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("token: %v", err)
	}

	actor, err := auth.NewJWTManager("s3cret", time.Hour).VerifyActor(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if actor != "cli-user" {
		t.Fatalf("expected cli-user, got %q", actor)
	}
}

func TestTokenCmdRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--user", "cli-user", "token"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestTokenFlagSendsBearer(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if _, err := execute(t, server, "--token", "abc", "reconcile", "report"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if got != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", got)
	}
}
