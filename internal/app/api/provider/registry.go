package provider

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/samber/lo"

	"speech-relay/internal/config"
)

// RecognizerCreator builds a recognizer from upstream settings. The shared
// HTTP client carries the configured upstream timeout.
type RecognizerCreator func(settings config.UpstreamSettings, client *http.Client) (Recognizer, error)

// recognizerRegistry stores recognizer creation functions
var (
	recognizerRegistry = make(map[string]RecognizerCreator)
	registryMutex      sync.RWMutex
)

// RegisterRecognizer registers a recognizer creator function under a backend name
func RegisterRecognizer(backend string, creator RecognizerCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	recognizerRegistry[backend] = creator
}

// NewRecognizer creates the recognizer configured in settings.Backend
func NewRecognizer(settings config.UpstreamSettings, client *http.Client) (Recognizer, error) {
	registryMutex.RLock()
	creator, ok := recognizerRegistry[settings.Backend]
	registryMutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("recognizer backend %s not registered (available: %v)", settings.Backend, ListRegisteredRecognizers())
	}
	return creator(settings, client)
}

// ListRegisteredRecognizers returns all registered backend names, sorted
func ListRegisteredRecognizers() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	backends := lo.Keys(recognizerRegistry)
	sort.Strings(backends)
	return backends
}
