package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	ddhttp "github.com/devdeck/devdeck/internal/adapter/http"
	"github.com/devdeck/devdeck/internal/domain/docker"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/domain/vcs"
	"github.com/devdeck/devdeck/internal/port/command"
	"github.com/devdeck/devdeck/internal/resilience"
	"github.com/devdeck/devdeck/internal/service"
)

// fakeGit implements gitprovider.Provider over canned answers.
type fakeGit struct {
	isRepo   bool
	branch   string
	status   vcs.Status
	result   vcs.OpResult
	branches vcs.Branches
	commits  []string

	lastOp string
}

func (f *fakeGit) Name() string                                 { return "fake" }
func (f *fakeGit) IsRepository(context.Context, string) bool    { return f.isRepo }
func (f *fakeGit) CurrentBranch(context.Context, string) string { return f.branch }
func (f *fakeGit) Status(context.Context, string) vcs.Status    { return f.status }

func (f *fakeGit) Branches(context.Context, string) (vcs.Branches, vcs.OpResult) {
	return f.branches, f.result
}

func (f *fakeGit) RecentCommits(context.Context, string, int) ([]string, vcs.OpResult) {
	return f.commits, f.result
}

func (f *fakeGit) StageFile(context.Context, string, string) bool {
	f.lastOp = "stage-file"
	return f.result.OK
}

func (f *fakeGit) UnstageFile(context.Context, string, string) bool {
	f.lastOp = "unstage-file"
	return f.result.OK
}

func (f *fakeGit) StageAll(context.Context, string) bool {
	f.lastOp = "stage-all"
	return f.result.OK
}

func (f *fakeGit) UnstageAll(context.Context, string) bool {
	f.lastOp = "unstage-all"
	return f.result.OK
}

func (f *fakeGit) Commit(context.Context, string, string, bool) vcs.OpResult {
	f.lastOp = "commit"
	return f.result
}

func (f *fakeGit) Push(context.Context, string) vcs.OpResult {
	f.lastOp = "push"
	return f.result
}

func (f *fakeGit) Pull(context.Context, string) vcs.OpResult {
	f.lastOp = "pull"
	return f.result
}

func (f *fakeGit) Stash(context.Context, string) vcs.OpResult {
	f.lastOp = "stash"
	return f.result
}

func (f *fakeGit) PopStash(context.Context, string) vcs.OpResult {
	f.lastOp = "pop-stash"
	return f.result
}

func (f *fakeGit) CheckoutBranch(context.Context, string, string) vcs.OpResult {
	f.lastOp = "checkout"
	return f.result
}

func (f *fakeGit) CreateBranch(context.Context, string, string, bool) vcs.OpResult {
	f.lastOp = "create-branch"
	return f.result
}

// fakeDocker implements dockerprovider.Provider.
type fakeDocker struct {
	available  bool
	containers []docker.Container
	images     []docker.Image
}

func (f *fakeDocker) Name() string                   { return "fake" }
func (f *fakeDocker) Available(context.Context) bool { return f.available }

func (f *fakeDocker) Containers(context.Context) ([]docker.Container, bool) {
	return f.containers, true
}

func (f *fakeDocker) Images(context.Context) ([]docker.Image, bool) { return f.images, true }

// fakeRunner implements command.Runner.
type fakeRunner struct {
	result command.Result
	specs  []command.Spec
}

func (f *fakeRunner) Run(_ context.Context, spec command.Spec) command.Result {
	f.specs = append(f.specs, spec)
	return f.result
}

func writeTestProject(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	info := []byte(`{"description": "test project"}`)
	if err := os.WriteFile(filepath.Join(dir, project.InfoFile), info, 0o600); err != nil {
		t.Fatal(err)
	}
	scripts := []byte(`{"scripts": {"start": "echo up", "danger": "sudo reboot"}}`)
	if err := os.WriteFile(filepath.Join(dir, project.ScriptsFile), scripts, 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

type testEnv struct {
	router chi.Router
	git    *fakeGit
	runner *fakeRunner
}

func newTestRouter(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	writeTestProject(t, root, "deck")

	registry := service.NewRegistryService(root, project.ScanOptions{}, nil, nil, nil, nil)
	if _, err := registry.Scan(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}

	git := &fakeGit{
		isRepo:   true,
		branch:   "main",
		status:   vcs.Status{Branch: "main", Modified: []string{"main.go"}},
		result:   vcs.OpResult{OK: true, Output: "done"},
		branches: vcs.Branches{Current: "main", Local: []string{"main", "dev"}},
		commits:  []string{"abc1234 first"},
	}
	gitSvc := service.NewGitService(registry, git, nil)

	dockerSvc := service.NewDockerService(
		&fakeDocker{available: true, containers: []docker.Container{{ID: "c1", Names: "web"}}},
		nil, resilience.NewBreaker(3, time.Minute), 10*time.Second, nil)

	runner := &fakeRunner{result: command.Result{ExitCode: 0, Stdout: "up\n"}}
	scriptSvc := service.NewScriptService(registry, runner, "sh", time.Minute, nil, nil, nil)

	handlers := &ddhttp.Handlers{
		Registry: registry,
		Git:      gitSvc,
		Docker:   dockerSvc,
		Scripts:  scriptSvc,
		Version:  "0.1.0",
	}

	r := chi.NewRouter()
	ddhttp.MountRoutes(r, handlers)
	return &testEnv{router: r, git: git, runner: runner}
}

func doRequest(t *testing.T, r chi.Router, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVersionEndpoint(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result["version"] != "0.1.0" {
		t.Fatalf("expected version 0.1.0, got %q", result["version"])
	}
}

// --- Project endpoints ---

func TestListProjects(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var projects []struct {
		Name string `json:"name"`
		Git  struct {
			State string `json:"state"`
		} `json:"git"`
	}
	if err := json.NewDecoder(w.Body).Decode(&projects); err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Name != "deck" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
	if projects[0].Git.State != string(project.RepoUnknown) {
		t.Fatalf("expected unprobed git state, got %q", projects[0].Git.State)
	}
}

func TestScanProjects(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/scan", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var projects []json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&projects); err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
}

func TestGetProject(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects/deck", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var p struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Name != "deck" || p.Description != "test project" {
		t.Fatalf("unexpected project: %+v", p)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects/nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCatalogUnavailable(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/catalog", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a catalog store, got %d", w.Code)
	}
}

// --- Git endpoints ---

func TestGitInfo(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects/deck/git", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var info struct {
		Repository bool   `json:"repository"`
		Branch     string `json:"branch"`
		Changes    int    `json:"changes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if !info.Repository || info.Branch != "main" || info.Changes != 1 {
		t.Fatalf("unexpected git info: %+v", info)
	}
}

func TestGitInfoUnknownProject(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects/ghost/git", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGitBranches(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects/deck/git/branches", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		Current string   `json:"current"`
		Local   []string `json:"local"`
		Remote  []string `json:"remote"`
		OK      bool     `json:"ok"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.OK || out.Current != "main" || len(out.Local) != 2 {
		t.Fatalf("unexpected branches: %+v", out)
	}
	if out.Remote == nil {
		t.Fatal("remote list should be empty, not null")
	}
}

func TestGitCommits(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects/deck/git/commits?count=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		Commits []string `json:"commits"`
		OK      bool     `json:"ok"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.OK || len(out.Commits) != 1 {
		t.Fatalf("unexpected commits: %+v", out)
	}
}

func TestGitCommitsBadCount(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/projects/deck/git/commits?count=many", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGitStageAll(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/stage", []byte(`{}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.git.lastOp != "stage-all" {
		t.Fatalf("expected stage-all, got %q", env.git.lastOp)
	}
}

func TestGitStageFile(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/stage", []byte(`{"file":"main.go"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if env.git.lastOp != "stage-file" {
		t.Fatalf("expected stage-file, got %q", env.git.lastOp)
	}
}

func TestGitStageInvalidBody(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/stage", []byte("not json"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGitCommit(t *testing.T) {
	env := newTestRouter(t)

	body := []byte(`{"message": "fix parser", "push": false}`)
	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/commit", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res vcs.OpResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Output != "done" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGitCommitMissingMessage(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/commit", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGitPushFailureIsOKFalse(t *testing.T) {
	env := newTestRouter(t)
	env.git.result = vcs.OpResult{OK: false, Output: "rejected"}

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/push", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("failed commands are data, not transport errors: got %d", w.Code)
	}

	var res vcs.OpResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.OK || res.Output != "rejected" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGitStashPop(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/stash/pop", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if env.git.lastOp != "pop-stash" {
		t.Fatalf("expected pop-stash, got %q", env.git.lastOp)
	}
}

func TestGitCheckoutMissingBranch(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/checkout", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGitCreateBranch(t *testing.T) {
	env := newTestRouter(t)

	body := []byte(`{"name": "feature/x", "checkout": true}`)
	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/git/branches", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.git.lastOp != "create-branch" {
		t.Fatalf("expected create-branch, got %q", env.git.lastOp)
	}
}

// --- Docker endpoints ---

func TestDockerStatus(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/docker/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var status docker.EngineStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status.Available || status.Breaker != "closed" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestDockerContainers(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "GET", "/api/v1/docker/containers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var out struct {
		OK         bool               `json:"ok"`
		Containers []docker.Container `json:"containers"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.OK || len(out.Containers) != 1 || out.Containers[0].Names != "web" {
		t.Fatalf("unexpected containers: %+v", out)
	}
}

// --- Script endpoints ---

func TestRunScript(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/scripts/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var run struct {
		RunID  string `json:"run_id"`
		Action string `json:"action"`
		OK     bool   `json:"ok"`
		Output string `json:"output"`
	}
	if err := json.NewDecoder(w.Body).Decode(&run); err != nil {
		t.Fatal(err)
	}
	if !run.OK || run.Action != "start" || run.RunID == "" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if len(env.runner.specs) != 1 || env.runner.specs[0].Args[1] != "echo up" {
		t.Fatalf("unexpected spec: %+v", env.runner.specs)
	}
}

func TestRunScriptUnknownAction(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/scripts/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRunScriptRestricted(t *testing.T) {
	env := newTestRouter(t)

	w := doRequest(t, env.router, "POST", "/api/v1/projects/deck/scripts/danger", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(env.runner.specs) != 0 {
		t.Fatal("restricted script must not reach the runner")
	}
}

func TestDockerDisabled(t *testing.T) {
	h := &ddhttp.Handlers{Version: "0.1.0"}
	router := chi.NewRouter()
	ddhttp.MountRoutes(router, h)

	w := doRequest(t, router, "GET", "/api/v1/docker/status", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestScriptsDisabled(t *testing.T) {
	h := &ddhttp.Handlers{Version: "0.1.0"}
	router := chi.NewRouter()
	ddhttp.MountRoutes(router, h)

	w := doRequest(t, router, "POST", "/api/v1/projects/deck/scripts/start", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
