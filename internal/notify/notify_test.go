package notify_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/JaimeStill/dispatch/internal/company"
	"github.com/JaimeStill/dispatch/internal/notify"
)

var notice = notify.Notice{
	EmailID:    "email_001",
	Owner:      "fin@acme.test",
	Department: company.Finance,
	Confidence: 0.88,
	From:       "jane@customer.test",
	Subject:    "Invoice #123",
	Summary:    "Invoice #123",
	Draft:      "Hello Jane.",
	Location:   "outputs/Finance/email_001_20260301100000.json",
}

type mockSES struct {
	failures  int
	callCount int
	lastInput *sesv2.SendEmailInput
}

func (m *mockSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.callCount++
	m.lastInput = params
	if m.callCount <= m.failures {
		return nil, errors.New("throttled")
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStdout(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewStdout(&buf)

	if err := n.Notify(context.Background(), notice); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	for _, want := range []string{"To: fin@acme.test", "Finance", "Hello Jane.", notice.Location} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestStdoutSkipsUnowned(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewStdout(&buf)

	unowned := notice
	unowned.Owner = ""
	if err := n.Notify(context.Background(), unowned); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSESSend(t *testing.T) {
	mock := &mockSES{}
	n := notify.NewSESWithClient("dispatch@acme.test", mock, time.Millisecond, discard())

	if err := n.Notify(context.Background(), notice); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if mock.callCount != 1 {
		t.Errorf("calls = %d, want 1", mock.callCount)
	}
	in := mock.lastInput
	if got := *in.FromEmailAddress; got != "dispatch@acme.test" {
		t.Errorf("from = %q", got)
	}
	if got := in.Destination.ToAddresses; len(got) != 1 || got[0] != "fin@acme.test" {
		t.Errorf("to = %v", got)
	}
	if got := *in.Content.Simple.Body.Text.Data; !strings.Contains(got, "Hello Jane.") {
		t.Errorf("body = %q", got)
	}
}

func TestSESRetries(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		wantErr  bool
		calls    int
	}{
		{"recovers", 2, false, 3},
		{"exhausted", 10, true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSES{failures: tt.failures}
			n := notify.NewSESWithClient("dispatch@acme.test", mock, time.Millisecond, discard())

			err := n.Notify(context.Background(), notice)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.callCount != tt.calls {
				t.Errorf("calls = %d, want %d", mock.callCount, tt.calls)
			}
		})
	}
}

func TestSESCancelledDuringBackoff(t *testing.T) {
	mock := &mockSES{failures: 10}
	n := notify.NewSESWithClient("dispatch@acme.test", mock, time.Hour, discard())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := n.Notify(ctx, notice)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_NOTIFY_PROVIDER", "ses")
	t.Setenv("TEST_NOTIFY_SENDER", "dispatch@acme.test")

	var c notify.Config
	err := c.Finalize(&notify.Env{Provider: "TEST_NOTIFY_PROVIDER", Sender: "TEST_NOTIFY_SENDER"})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if c.Provider != notify.ProviderSES || c.Region != "us-east-1" {
		t.Errorf("config = %+v", c)
	}

	bad := notify.Config{Provider: notify.ProviderSES}
	if err := bad.Finalize(nil); err == nil {
		t.Error("ses without sender should fail validation")
	}

	unknown := notify.Config{Provider: "pigeon"}
	if err := unknown.Finalize(nil); err == nil {
		t.Error("unknown provider should fail validation")
	}
}

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{notify.ProviderNone, "none", false},
		{notify.ProviderStdout, "stdout", false},
		{"pigeon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			n, err := notify.New(context.Background(), &notify.Config{Provider: tt.provider}, io.Discard, discard())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if err == nil && n.Name() != tt.want {
				t.Errorf("Name = %q, want %q", n.Name(), tt.want)
			}
		})
	}
}
