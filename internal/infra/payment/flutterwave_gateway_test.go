//go:build !integration

package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"talkpdf-backend/internal/domain/ports/adapter"
)

func TestCreateCharge(t *testing.T) {
	t.Run("sends checkout payload and returns link", func(t *testing.T) {
		var got map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/payments" {
				t.Errorf("%s %s, want POST /payments", r.Method, r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
				t.Errorf("Authorization = %q", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "success",
				"message": "Hosted Link",
				"data":    map[string]string{"link": "https://checkout.test/abc"},
			})
		}))
		defer srv.Close()

		g := NewFlutterwaveGateway("sk-test", srv.URL)
		link, err := g.CreateCharge(context.Background(), adapter.ChargeRequest{
			TxRef:         "TPDF-1",
			Amount:        2000,
			Currency:      "NGN",
			RedirectURL:   "https://app.test/dashboard/payment/callback",
			CustomerEmail: "u1@test.dev",
			Title:         "TalkPDF student_pro (monthly)",
		})
		if err != nil {
			t.Fatalf("CreateCharge: %v", err)
		}
		if link != "https://checkout.test/abc" {
			t.Errorf("link = %q", link)
		}

		if got["tx_ref"] != "TPDF-1" || got["amount"] != float64(2000) || got["currency"] != "NGN" {
			t.Errorf("payload = %v", got)
		}
		customer, _ := got["customer"].(map[string]interface{})
		if customer["email"] != "u1@test.dev" {
			t.Errorf("customer = %v", customer)
		}
	})

	t.Run("error status surfaces as error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "error",
				"message": "invalid key",
			})
		}))
		defer srv.Close()

		g := NewFlutterwaveGateway("sk-test", srv.URL)
		if _, err := g.CreateCharge(context.Background(), adapter.ChargeRequest{TxRef: "TPDF-1"}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestVerifyTransaction(t *testing.T) {
	t.Run("parses successful report", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/transactions/123456/verify" {
				t.Errorf("%s %s, want GET /transactions/123456/verify", r.Method, r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "success",
				"message": "Transaction fetched",
				"data": map[string]interface{}{
					"id":         123456,
					"tx_ref":     "TPDF-1",
					"amount":     2000,
					"currency":   "NGN",
					"status":     "successful",
					"created_at": "2026-09-01T10:00:00Z",
				},
			})
		}))
		defer srv.Close()

		g := NewFlutterwaveGateway("sk-test", srv.URL)
		vtx, err := g.VerifyTransaction(context.Background(), "123456")
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if vtx.ProviderTxID != "123456" || vtx.TxRef != "TPDF-1" {
			t.Errorf("identity = %+v", vtx)
		}
		if vtx.Amount != 2000 || vtx.Currency != "NGN" {
			t.Errorf("amount = %d %s", vtx.Amount, vtx.Currency)
		}
		if !vtx.Successful {
			t.Error("Successful = false, want true")
		}
		if vtx.PaidAt.IsZero() {
			t.Error("PaidAt not parsed")
		}
	})

	t.Run("non-successful vendor status is reported, not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"data": map[string]interface{}{
					"id": 1, "tx_ref": "TPDF-1", "amount": 2000,
					"currency": "NGN", "status": "failed",
				},
			})
		}))
		defer srv.Close()

		g := NewFlutterwaveGateway("sk-test", srv.URL)
		vtx, err := g.VerifyTransaction(context.Background(), "1")
		if err != nil {
			t.Fatalf("VerifyTransaction: %v", err)
		}
		if vtx.Successful {
			t.Error("failed charge must not report Successful")
		}
	})

	t.Run("api-level error becomes an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "error",
				"message": "No transaction was found for this id",
			})
		}))
		defer srv.Close()

		g := NewFlutterwaveGateway("sk-test", srv.URL)
		if _, err := g.VerifyTransaction(context.Background(), "999"); err == nil {
			t.Fatal("expected error")
		}
	})
}
