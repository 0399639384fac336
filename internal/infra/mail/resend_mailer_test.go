//go:build !integration

package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendPaymentConfirmation(t *testing.T) {
	t.Run("posts to the emails endpoint", func(t *testing.T) {
		var got map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/emails" {
				t.Errorf("%s %s, want POST /emails", r.Method, r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer re-key" {
				t.Errorf("Authorization = %q", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		m := NewResendMailer("re-key", srv.URL, "TalkPDF <no-reply@talkpdf.app>")
		err := m.SendPaymentConfirmation(context.Background(), "u1@test.dev", "student_pro", 2000, "NGN")
		if err != nil {
			t.Fatalf("SendPaymentConfirmation: %v", err)
		}

		to, _ := got["to"].([]interface{})
		if len(to) != 1 || to[0] != "u1@test.dev" {
			t.Errorf("to = %v", got["to"])
		}
		text, _ := got["text"].(string)
		if !strings.Contains(text, "student_pro") || !strings.Contains(text, "2000 NGN") {
			t.Errorf("text = %q", text)
		}
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		m := NewResendMailer("bad-key", srv.URL, "TalkPDF <no-reply@talkpdf.app>")
		if err := m.SendPaymentConfirmation(context.Background(), "u1@test.dev", "student_pro", 2000, "NGN"); err == nil {
			t.Fatal("expected error")
		}
	})
}
