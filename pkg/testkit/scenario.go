// Package testkit drives HTTP API tests from JSON scenario files and provides
// a migrated in-memory database for package tests.
//
// A scenario describes one request and what should come back:
//
//	testdata/
//	  01_create_user.json       ← scenario
//	  01_create_user_req.json   ← request body (or inline "requestBody")
//	  03_list_users_res.json    ← expected JSON body
//
// String fields may reference {{vars}} supplied by the test, e.g. a bearer
// token minted in test setup.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scenario describes a single REST API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"`
	RequestBody     json.RawMessage   `json:"requestBody"`
	Headers         map[string]string `json:"headers"`
	BasicAuth       *BasicAuth        `json:"basicAuth"`

	ExpectedCode     int             `json:"expectedCode"`
	ResponseFileName string          `json:"responseFileName"`
	ResponseBody     json.RawMessage `json:"responseBody"`
	ResponseText     *string         `json:"responseText"`

	dir string
}

// BasicAuth sets an Authorization: Basic header on the request.
type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestFileName != "" && len(s.RequestBody) > 0 {
		return fmt.Errorf("requestFileName and requestBody are mutually exclusive")
	}
	if s.ResponseFileName != "" && len(s.ResponseBody) > 0 {
		return fmt.Errorf("responseFileName and responseBody are mutually exclusive")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	return nil
}

// RequestBodyPath resolves RequestFileName against the scenario directory.
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath resolves ResponseFileName against the scenario directory.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// LoadAllFromDir loads every scenario in dir, in file-name order. Files
// ending in _req.json or _res.json are bodies, not scenarios.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}
	sort.Strings(entries)

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		if isBodyFile(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}

func isBodyFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{"_req.json", "_res.json"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}
