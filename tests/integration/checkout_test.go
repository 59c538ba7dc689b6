//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
)

func createCart(t *testing.T) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, "/api/carts", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create cart: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[cartResponse](t, resp).ID
}

func findProduct(t *testing.T, name string) productResponse {
	t.Helper()

	resp := doGet(t, "/api/products")
	defer resp.Body.Close()
	for _, p := range decodeJSON[[]productResponse](t, resp) {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not found", name)
	return productResponse{}
}

func addToCart(t *testing.T, cartID, productID string) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/items", map[string]string{
		"productId": productID,
	})
}

func TestCheckoutFlow(t *testing.T) {
	jus := findProduct(t, "Jus Alpukat")
	cartID := createCart(t)

	resp := addToCart(t, cartID, jus.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = addToCart(t, cartID, jus.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second add: expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(body.Items) != 1 || body.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", body.Items)
	}

	resp = doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", map[string]string{
		"customerName":  "Ani",
		"customerPhone": "081234567890",
		"paymentMethod": "Tunai",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp.StatusCode)
	}
	out := decodeJSON[checkoutResponse](t, resp)
	resp.Body.Close()

	if out.Transaction.Total != 30000 {
		t.Errorf("total: got %v, want 30000", out.Transaction.Total)
	}
	if out.Transaction.PaymentStatus != "Paid" {
		t.Errorf("status: got %q, want Paid", out.Transaction.PaymentStatus)
	}
	if !strings.Contains(out.Receipt, "Jus Alpukat x2 - Rp 30.000") {
		t.Errorf("receipt missing item line:\n%s", out.Receipt)
	}
	if !strings.HasPrefix(out.WhatsAppURL, "https://wa.me/6281234567890?text=") {
		t.Errorf("unexpected WhatsApp URL: %q", out.WhatsAppURL)
	}
	if strings.Contains(out.WhatsAppURL, "+") {
		t.Errorf("WhatsApp URL must encode spaces as %%20: %q", out.WhatsAppURL)
	}

	// The cart is discarded after checkout.
	resp = doGet(t, "/api/carts/"+cartID)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cart after checkout: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The transaction is at the head of the log.
	resp = doGet(t, "/api/transactions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transactions: expected 200, got %d", resp.StatusCode)
	}
	txs := decodeJSON[[]transactionResponse](t, resp)
	resp.Body.Close()
	if len(txs) == 0 || txs[0].ID != out.Transaction.ID {
		t.Errorf("expected transaction %s at head of log", out.Transaction.ID)
	}
}

func TestCheckout_StockLimit(t *testing.T) {
	jus := findProduct(t, "Jus Alpukat")
	cartID := createCart(t)

	// Stock is 2; the third add must be rejected.
	for i := 0; i < 2; i++ {
		resp := addToCart(t, cartID, jus.ID)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add %d: expected 200, got %d", i+1, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := addToCart(t, cartID, jus.ID)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if !strings.Contains(body.Message, "insufficient stock") {
		t.Errorf("unexpected error message: %q", body.Message)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	cartID := createCart(t)

	resp := doJSON(t, http.MethodPost, "/api/carts/"+cartID+"/checkout", map[string]string{
		"customerName":  "Ani",
		"customerPhone": "081234567890",
		"paymentMethod": "Tunai",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSalesReport(t *testing.T) {
	resp := doGet(t, "/api/reports/sales")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	report := decodeJSON[map[string]any](t, resp)
	for _, key := range []string{"revenue", "transactions", "itemsSold", "average", "daily"} {
		if _, ok := report[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}
}
