package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Vars are substituted into scenario strings written as {{name}}.
type Vars map[string]string

func (v Vars) expand(s string) string {
	for k, val := range v {
		s = strings.ReplaceAll(s, "{{"+k+"}}", val)
	}
	return s
}

// Run executes a single scenario file against handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string, vars Vars) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}
	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s, vars)
	})
}

// RunDir runs every scenario in dir as a subtest, in file-name order, so
// later scenarios may depend on state created by earlier ones.
func RunDir(t *testing.T, handler http.Handler, dir string, vars Vars) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("testkit: no runnable scenarios in %q", dir)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s, vars)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario, vars Vars) {
	t.Helper()

	var reqBody io.Reader
	switch {
	case s.RequestBodyPath() != "":
		data, err := os.ReadFile(s.RequestBodyPath())
		if err != nil {
			t.Fatalf("[%s] read request file: %v", s.Name, err)
		}
		reqBody = strings.NewReader(vars.expand(string(data)))
	case len(s.RequestBody) > 0:
		reqBody = bytes.NewReader([]byte(vars.expand(string(s.RequestBody))))
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), vars.expand(s.RequestURL), reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}
	if s.BasicAuth != nil {
		req.SetBasicAuth(vars.expand(s.BasicAuth.Username), vars.expand(s.BasicAuth.Password))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	switch {
	case s.ResponseBodyPath() != "":
		expected, err := os.ReadFile(s.ResponseBodyPath())
		if err != nil {
			t.Errorf("[%s] read response file: %v", s.Name, err)
			return
		}
		AssertJSONBody(t, s, []byte(vars.expand(string(expected))), rec.Body.Bytes())
	case len(s.ResponseBody) > 0:
		AssertJSONBody(t, s, []byte(vars.expand(string(s.ResponseBody))), rec.Body.Bytes())
	case s.ResponseText != nil:
		AssertTextBody(t, s, vars.expand(*s.ResponseText), rec.Body.String())
	}
}
