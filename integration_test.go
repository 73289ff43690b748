package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lingobazaar/lingobazaar-api/config"
	"github.com/lingobazaar/lingobazaar-api/models"
	"github.com/lingobazaar/lingobazaar-api/services"
	"github.com/lingobazaar/lingobazaar-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const integrationSecret = "integration-test-secret"

// setupIntegrationServer wires the real router (real auth middleware, real
// controllers) over an in-memory database and a mock translator.
func setupIntegrationServer(t *testing.T) (*gin.Engine, *gorm.DB, *services.MockTranslateService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.Order{}, &models.OrderItem{}, &models.Message{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		GoEnv:     "test",
		Port:      "8080",
		JWTSecret: integrationSecret,
	}

	translator := services.NewMockTranslateService()
	return setupRouter(cfg, db, translator), db, translator
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		encoded, _ := json.Marshal(body)
		buf = bytes.NewBuffer(encoded)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIRequiresAuthentication(t *testing.T) {
	router, _, _ := setupIntegrationServer(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/messages/send"},
		{http.MethodGet, "/messages/alice_bob"},
		{http.MethodGet, "/orders/alice"},
		{http.MethodPost, "/orders/1/status"},
		{http.MethodGet, "/profiles/me"},
	}

	for _, ep := range endpoints {
		t.Run(fmt.Sprintf("%s %s", ep.method, ep.path), func(t *testing.T) {
			w := doRequest(router, ep.method, ep.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMessagingFlowIntegration(t *testing.T) {
	router, store, translator := setupIntegrationServer(t)
	store.Create(&models.Profile{ID: "alice", Name: "Alice", Role: "buyer", PreferredLanguage: "en"})
	store.Create(&models.Profile{ID: "bob", Name: "Bob", Role: "seller", PreferredLanguage: "es"})
	translator.SetTranslation("Is the rug still available?", "¿La alfombra sigue disponible?")

	aliceToken := testutil.SignTestToken(t, integrationSecret, "alice", "buyer")
	bobToken := testutil.SignTestToken(t, integrationSecret, "bob", "seller")

	// Alice sends a message that gets translated for Bob
	w := doRequest(router, http.MethodPost, "/messages/send", aliceToken, map[string]string{
		"receiver_id": "bob",
		"message":     "Is the rug still available?",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var sendResponse map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &sendResponse))
	assert.Equal(t, "Message sent", sendResponse["message"])

	// Bob reads the conversation and sees the translated text
	w = doRequest(router, http.MethodGet, "/messages/alice_bob", bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var messages []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	assert.Len(t, messages, 1)
	assert.Equal(t, "Is the rug still available?", messages[0]["message"])
	assert.Equal(t, "¿La alfombra sigue disponible?", messages[0]["translated_message"])

	// A third party cannot read the conversation
	carolToken := testutil.SignTestToken(t, integrationSecret, "carol", "buyer")
	w = doRequest(router, http.MethodGet, "/messages/alice_bob", carolToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderFlowIntegration(t *testing.T) {
	router, store, _ := setupIntegrationServer(t)

	store.Create(&models.Profile{ID: "alice", Name: "Alice", Role: "buyer"})
	store.Create(&models.Profile{ID: "bob", Name: "Bob", Role: "seller"})

	order := models.Order{
		BuyerID:          "alice",
		SellerID:         "bob",
		Status:           "Placed",
		StatusTimestamps: models.StatusTimestamps{"Placed": "2026-08-20T08:00:00Z"},
	}
	store.Create(&order)
	store.Create(&models.OrderItem{OrderID: order.ID, ItemName: "Handwoven rug", Quantity: 1, Price: 120.00})

	aliceToken := testutil.SignTestToken(t, integrationSecret, "alice", "buyer")
	bobToken := testutil.SignTestToken(t, integrationSecret, "bob", "seller")

	// The buyer sees the order with its items
	w := doRequest(router, http.MethodGet, "/orders/alice", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
	assert.Equal(t, "Placed", orders[0]["status"])
	items := orders[0]["items"].([]interface{})
	assert.Len(t, items, 1)

	// The buyer cannot move the order forward
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/orders/%d/status", order.ID), aliceToken, map[string]string{
		"new_status": "Accepted",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The seller accepts the order
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/orders/%d/status", order.ID), bobToken, map[string]string{
		"new_status": "Accepted",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updateResponse map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updateResponse))
	assert.Equal(t, "Accepted", updateResponse["new_status"])

	// The stored order gained the new timestamp and kept the old one
	var stored models.Order
	assert.NoError(t, store.First(&stored, order.ID).Error)
	assert.Equal(t, "Accepted", stored.Status)
	assert.Equal(t, "2026-08-20T08:00:00Z", stored.StatusTimestamps["Placed"])
	assert.NotEmpty(t, stored.StatusTimestamps["Accepted"])

	// Skipping ahead is rejected
	w = doRequest(router, http.MethodPost, fmt.Sprintf("/orders/%d/status", order.ID), bobToken, map[string]string{
		"new_status": "Delivered",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileEndpointIntegration(t *testing.T) {
	router, store, _ := setupIntegrationServer(t)
	store.Create(&models.Profile{ID: "alice", Name: "Alice", Role: "buyer", PreferredLanguage: "fr"})

	token := testutil.SignTestToken(t, integrationSecret, "alice", "buyer")
	w := doRequest(router, http.MethodGet, "/profiles/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var profile map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "alice", profile["id"])
	assert.Equal(t, "fr", profile["preferred_language"])
}
