package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/auth"
	"github.com/viduni-ubesekara/GreenLink-Project/cart"
	"github.com/viduni-ubesekara/GreenLink-Project/catalog"
	"github.com/viduni-ubesekara/GreenLink-Project/checkout"
	"github.com/viduni-ubesekara/GreenLink-Project/notify"
	"github.com/viduni-ubesekara/GreenLink-Project/payment"
	"github.com/viduni-ubesekara/GreenLink-Project/promotion"
	"github.com/viduni-ubesekara/GreenLink-Project/realtime"
	"github.com/viduni-ubesekara/GreenLink-Project/receipt"
	"github.com/viduni-ubesekara/GreenLink-Project/store/storetest"
	"github.com/viduni-ubesekara/GreenLink-Project/uploads"
)

const operatorKey = "test-operator-key"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	st := storetest.New(t)

	dispatcher := notify.NewDispatcher(notify.Noop{}, notify.DispatcherOptions{QueueSize: 16}, log)
	t.Cleanup(dispatcher.Close)
	hub := realtime.NewHub(nil, log)
	t.Cleanup(hub.Close)
	files := uploads.New(t.TempDir(), "http://localhost:8080", log)

	promos := promotion.NewService(st, dispatcher, time.UTC, log)
	payments := payment.NewService(st, dispatcher, hub, files, "94", log)

	r := gin.New()
	SetupRoutes(r, Deps{
		Log:            log,
		Issuer:         auth.NewIssuer("test-secret", time.Hour),
		OperatorAPIKey: operatorKey,
		Catalog:        catalog.NewService(st, files, 50, log),
		Cart:           cart.NewService(st, st, log),
		Checkout:       checkout.NewService(st, st, promos, payments, receipt.Company{Name: "GreenLink"}, log),
		Promotions:     promos,
		Payments:       payments,
		Uploads:        files,
		Hub:            hub,
		Ping:           st.Ping,
	})
	return r
}

type call struct {
	method, path string
	body         io.Reader
	contentType  string
	token        string
	operator     bool
}

func do(t *testing.T, r *gin.Engine, c call) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(c.method, c.path, c.body)
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.operator {
		req.Header.Set("X-API-KEY", operatorKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func amount(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected a decimal string, got %v", v)
	return decimal.RequireFromString(s)
}

func TestHealthz(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, call{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAccessControl(t *testing.T) {
	r := newRouter(t)

	cases := []struct {
		name     string
		method   string
		path     string
		operator bool
		want     int
	}{
		{"shop is public", http.MethodGet, "/inventoryPanel/shop", false, http.StatusOK},
		{"group promotions are public", http.MethodGet, "/api/promotions/group", false, http.StatusOK},
		{"inventory needs key", http.MethodGet, "/inventoryPanel", false, http.StatusUnauthorized},
		{"inventory with key", http.MethodGet, "/inventoryPanel", true, http.StatusOK},
		{"stats need key", http.MethodGet, "/api/promotions/stats", false, http.StatusUnauthorized},
		{"payments need key", http.MethodGet, "/api/payment", false, http.StatusUnauthorized},
		{"cart needs session", http.MethodGet, "/cart", false, http.StatusUnauthorized},
		{"unknown code", http.MethodGet, "/api/userpromo/getpromotion/NOPE", false, http.StatusNotFound},
		{"bad status filter", http.MethodGet, "/api/payment?status=Paid", true, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, call{method: tc.method, path: tc.path, operator: tc.operator})
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestCreateItem_ValidationFields(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, call{
		method:      http.MethodPost,
		path:        "/inventoryPanel",
		body:        jsonBody(t, map[string]interface{}{"itemID": "X", "itemPrice": "-5", "stockCount": 1}),
		contentType: "application/json",
		operator:    true,
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	fields, ok := decode(t, w)["fields"].(map[string]interface{})
	require.True(t, ok)
	for _, f := range []string{"itemID", "itemName", "itemPrice", "imgURL"} {
		assert.Contains(t, fields, f)
	}
}

func TestShopperCheckoutAndReview(t *testing.T) {
	r := newRouter(t)

	// Operator stocks an item.
	w := do(t, r, call{
		method: http.MethodPost,
		path:   "/inventoryPanel",
		body: jsonBody(t, map[string]interface{}{
			"itemID":     "SEED-01",
			"itemName":   "Tomato Seeds",
			"itemBrand":  "GreenLink",
			"itemPrice":  "125",
			"stockCount": 10,
			"catagory":   "Seeds",
			"imgURL":     "/uploads/items/tomato.png",
		}),
		contentType: "application/json",
		operator:    true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID := decode(t, w)["_id"].(string)

	// And runs a group promotion today.
	today := time.Now().UTC().Format("2006-01-02")
	w = do(t, r, call{
		method: http.MethodPost,
		path:   "/api/promotions",
		body: jsonBody(t, map[string]interface{}{
			"promotionName": "Harvest",
			"promotionKey":  "HARVEST",
			"startDate":     today,
			"endDate":       today,
			"promotionType": "Group",
			"description":   "20% off everything",
		}),
		contentType: "application/json",
		operator:    true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Shopper opens a session and fills the cart.
	w = do(t, r, call{method: http.MethodPost, path: "/auth/session"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	w = do(t, r, call{
		method:      http.MethodPost,
		path:        "/cart/add",
		body:        jsonBody(t, map[string]interface{}{"itemId": itemID, "quantity": 2}),
		contentType: "application/json",
		token:       token,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, call{method: http.MethodGet, path: "/cart/checkout?promo=HARVEST", token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote := decode(t, w)
	assert.True(t, amount(t, quote["originalTotal"]).Equal(decimal.NewFromInt(250)))
	assert.True(t, amount(t, quote["discountedTotal"]).Equal(decimal.NewFromInt(200)))

	w = do(t, r, call{method: http.MethodGet, path: "/cart/receipt", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Regexp(t, `^GL-[0-9A-F]{8}$`, w.Header().Get("X-Bill-ID"))

	// Submit the payment form.
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	for k, v := range map[string]string{
		"name":        "Nimal Perera",
		"email":       "nimal@example.com",
		"phoneNumber": "0771234567",
		"promo":       "HARVEST",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	w = do(t, r, call{
		method:      http.MethodPost,
		path:        "/api/payment",
		body:        &form,
		contentType: mw.FormDataContentType(),
		token:       token,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	submitted := decode(t, w)
	assert.Equal(t, "Submitted", submitted["paymentStatus"])
	assert.True(t, amount(t, submitted["amount"]).Equal(decimal.NewFromInt(200)))
	paymentID := submitted["_id"].(string)

	// Stock was taken and the cart emptied.
	w = do(t, r, call{method: http.MethodGet, path: "/inventoryPanel/items/" + itemID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 8, decode(t, w)["stockCount"])

	w = do(t, r, call{method: http.MethodGet, path: "/cart", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["itemCount"])

	// Operator reviews it.
	w = do(t, r, call{method: http.MethodGet, path: "/api/payment?status=Submitted", operator: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), paymentID)

	w = do(t, r, call{method: http.MethodPut, path: "/api/payment/" + paymentID + "/approve", operator: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	review := decode(t, w)
	assert.True(t, strings.HasPrefix(review["whatsappLink"].(string), "https://wa.me/94771234567?text="))
	assert.Equal(t, "Approved", review["payment"].(map[string]interface{})["paymentStatus"])

	w = do(t, r, call{method: http.MethodPut, path: "/api/payment/" + paymentID + "/reject", operator: true})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = do(t, r, call{method: http.MethodGet, path: "/api/promotions/stats", operator: true})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCart_DecreaseAndRemove(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, call{
		method: http.MethodPost,
		path:   "/inventoryPanel",
		body: jsonBody(t, map[string]interface{}{
			"itemID": "CMP-01", "itemName": "Compost", "itemBrand": "GreenLink",
			"itemPrice": "50", "stockCount": 5, "catagory": "Fertilizer", "imgURL": "/uploads/items/compost.png",
		}),
		contentType: "application/json",
		operator:    true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID := decode(t, w)["_id"].(string)

	w = do(t, r, call{method: http.MethodPost, path: "/auth/session"})
	token := decode(t, w)["token"].(string)

	w = do(t, r, call{
		method: http.MethodPost, path: "/cart/add", token: token,
		body: jsonBody(t, map[string]string{"itemId": itemID}), contentType: "application/json",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	lineID := decode(t, w)["_id"].(string)

	w = do(t, r, call{method: http.MethodPatch, path: "/cart/increase/" + lineID, token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode(t, w)["itemCount"])

	w = do(t, r, call{method: http.MethodPatch, path: "/cart/decrease/" + lineID, token: token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["itemCount"])

	w = do(t, r, call{method: http.MethodDelete, path: "/cart/remove/" + lineID, token: token})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, call{method: http.MethodDelete, path: "/cart/remove/" + lineID, token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
