package services

import (
	"fmt"
	"sync"
)

// TranslateCall records the arguments of one Translate invocation.
type TranslateCall struct {
	Text       string
	TargetLang string
	SourceLang string
}

// MockTranslateService is a mock implementation of Translator for testing
type MockTranslateService struct {
	translations map[string]string // map of source text to translated text
	failAll      bool
	calls        []TranslateCall
	mu           sync.Mutex
}

// NewMockTranslateService creates a new mock translation service
func NewMockTranslateService() *MockTranslateService {
	return &MockTranslateService{
		translations: make(map[string]string),
	}
}

// SetTranslation registers a canned translation for the given source text
func (m *MockTranslateService) SetTranslation(text, translated string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations[text] = translated
}

// FailAll makes every subsequent Translate call return an error
func (m *MockTranslateService) FailAll(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = fail
}

// Calls returns the recorded Translate invocations
func (m *MockTranslateService) Calls() []TranslateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]TranslateCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Translate simulates a translation call
func (m *MockTranslateService) Translate(text, targetLang, sourceLang string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, TranslateCall{Text: text, TargetLang: targetLang, SourceLang: sourceLang})

	if m.failAll {
		return "", fmt.Errorf("mock translation failure")
	}

	if translated, ok := m.translations[text]; ok {
		return translated, nil
	}

	// Default canned translation when none was registered
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}
