package llm

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ModeMock selects the mock generator.
const ModeMock = "MOCK"

// NewGenerator creates a generator based on mode. MOCK returns a MockClient;
// anything else returns the Hugging Face client.
func NewGenerator(mode, baseURL, apiKey, model string, timeout time.Duration, log logrus.FieldLogger) Generator {
	if mode == ModeMock {
		log.Info("QA_MODE=MOCK detected, using mock generator")
		return NewMockClient()
	}
	return NewHFClient(baseURL, apiKey, model, timeout)
}
