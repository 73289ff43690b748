package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lingobazaar/lingobazaar-api/config"
)

// Translator translates message text into a receiver's preferred language.
type Translator interface {
	// Translate returns text translated into targetLang. sourceLang may be
	// empty, in which case the provider detects the source language.
	Translate(text, targetLang, sourceLang string) (string, error)
}

// GoogleTranslateService implements Translator using the Google Cloud
// Translation v2 REST API.
type GoogleTranslateService struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewGoogleTranslateService creates a new translation service instance
func NewGoogleTranslateService(cfg *config.Config) *GoogleTranslateService {
	endpoint := cfg.TranslateEndpoint
	if endpoint == "" {
		endpoint = config.DefaultTranslateEndpoint
	}

	return &GoogleTranslateService{
		apiKey:   cfg.TranslateAPIKey,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// translateResponse mirrors the relevant part of the v2 API response
type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate calls the translation endpoint with a form-encoded request and
// returns the translated text, or an error on any provider failure.
func (s *GoogleTranslateService) Translate(text, targetLang, sourceLang string) (string, error) {
	form := url.Values{}
	form.Set("q", text)
	form.Set("target", targetLang)
	form.Set("key", s.apiKey)
	if sourceLang != "" {
		form.Set("source", sourceLang)
	}

	resp, err := s.httpClient.PostForm(s.endpoint, form)
	if err != nil {
		return "", fmt.Errorf("failed to call translation endpoint: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	// Check for non-200 status codes
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("translation endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	// Parse the response
	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}

	if len(parsed.Data.Translations) == 0 {
		return "", fmt.Errorf("translation response contained no translations")
	}

	return parsed.Data.Translations[0].TranslatedText, nil
}
