//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "coderr-api"
	ConsumerName = "coderr-frontend"

	StateBusinessSession = "a business account with a valid session exists"
	StateOfferExists     = "offer with id 1 exists"
	StateOfferMissing    = "no offer with id 4242"
	StatePlatformStats   = "platform statistics are seeded"
)

const (
	ExistingOfferID int64 = 1
	MissingOfferID  int64 = 4242

	BusinessUsername = "pact-studio"
	BusinessPassword = "pact-pass"

	// BusinessToken is the session token both sides agree on. The provider
	// state handlers seed it into the session store so replayed requests
	// authenticate.
	BusinessToken = "pact-session-token"
)

const (
	exampleOfferTitle       = "Brand relaunch package"
	exampleOfferDescription = "Logo, flyer and web design in one bundle"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the frontend consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleDetailPayloads returns the canonical three-tier pricing set used in
// pact interactions.
func ExampleDetailPayloads() []map[string]any {
	return []map[string]any{
		{
			"title":                 "Basic",
			"revisions":             1,
			"delivery_time_in_days": 5,
			"price":                 100.0,
			"features":              []string{"Logo"},
			"offer_type":            "basic",
		},
		{
			"title":                 "Standard",
			"revisions":             3,
			"delivery_time_in_days": 7,
			"price":                 200.0,
			"features":              []string{"Logo", "Flyer"},
			"offer_type":            "standard",
		},
		{
			"title":                 "Premium",
			"revisions":             -1,
			"delivery_time_in_days": 10,
			"price":                 500.0,
			"features":              []string{"Logo", "Flyer", "Website"},
			"offer_type":            "premium",
		},
	}
}

// ExampleOfferPayload provides the stable offer creation request body.
func ExampleOfferPayload() map[string]any {
	return map[string]any{
		"title":       exampleOfferTitle,
		"description": exampleOfferDescription,
		"details":     ExampleDetailPayloads(),
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
