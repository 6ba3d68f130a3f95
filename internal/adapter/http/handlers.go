package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/devdeck/devdeck/internal/domain/docker"
	"github.com/devdeck/devdeck/internal/domain/project"
	"github.com/devdeck/devdeck/internal/domain/vcs"
	"github.com/devdeck/devdeck/internal/port/database"
	"github.com/devdeck/devdeck/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Registry *service.RegistryService
	Git      *service.GitService
	Docker   *service.DockerService
	Scripts  *service.ScriptService
	Version  string
}

// projectView decorates a project with its cached git summary.
type projectView struct {
	*project.Project
	Git service.GitInfo `json:"git"`
}

func (h *Handlers) projectViews(projects []*project.Project) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView{Project: p, Git: h.Git.Summary(p)})
	}
	return views
}

// VersionInfo reports the running daemon version.
func (h *Handlers) VersionInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": h.Version})
}

// --- Project Endpoints ---

// ListProjects returns the in-memory project registry.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.Registry.List(r.Context())
	writeJSON(w, http.StatusOK, h.projectViews(projects))
}

// ScanProjects rescans the workspace root and returns the fresh list. A scan
// already in flight yields 409.
func (h *Handlers) ScanProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Registry.Scan(r.Context())
	if err != nil {
		writeDomainError(w, err, "workspace root not found")
		return
	}
	writeJSON(w, http.StatusOK, h.projectViews(projects))
}

// GetProject returns a single project by name.
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Registry.Get(r.Context(), urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, projectView{Project: p, Git: h.Git.Summary(p)})
}

// ListCatalog returns the durable scan history rows.
func (h *Handlers) ListCatalog(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Registry.Catalog(r.Context())
	if err != nil {
		writeDomainError(w, err, "catalog not found")
		return
	}
	if rows == nil {
		rows = []database.CatalogRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// --- Git Endpoints ---

type stageRequest struct {
	File string `json:"file"`
}

type commitRequest struct {
	Message string `json:"message"`
	Push    bool   `json:"push"`
}

type checkoutRequest struct {
	Branch string `json:"branch"`
}

type createBranchRequest struct {
	Name     string `json:"name"`
	Checkout bool   `json:"checkout"`
}

type branchesResponse struct {
	vcs.Branches
	OK     bool   `json:"ok"`
	Output string `json:"output,omitempty"`
}

type commitsResponse struct {
	Commits []string `json:"commits"`
	OK      bool     `json:"ok"`
	Output  string   `json:"output,omitempty"`
}

// GitInfo returns a project's repository state, probing the directory on
// first access.
func (h *Handlers) GitInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Git.Info(r.Context(), urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GitRefresh re-reads branch and status from git.
func (h *Handlers) GitRefresh(w http.ResponseWriter, r *http.Request) {
	info, err := h.Git.Refresh(r.Context(), urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GitBranches lists local and remote branches.
func (h *Handlers) GitBranches(w http.ResponseWriter, r *http.Request) {
	branches, res, err := h.Git.Branches(r.Context(), urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	if branches.Local == nil {
		branches.Local = []string{}
	}
	if branches.Remote == nil {
		branches.Remote = []string{}
	}
	out := branchesResponse{Branches: branches, OK: res.OK}
	if !res.OK {
		out.Output = res.Output
	}
	writeJSON(w, http.StatusOK, out)
}

// GitCommits returns the latest commit subjects, newest first. The count
// query parameter caps the number of lines.
func (h *Handlers) GitCommits(w http.ResponseWriter, r *http.Request) {
	count := 0
	if qs := r.URL.Query().Get("count"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "count must be a non-negative integer")
			return
		}
		count = n
	}

	commits, res, err := h.Git.Commits(r.Context(), urlParam(r, "name"), count)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	if commits == nil {
		commits = []string{}
	}
	out := commitsResponse{Commits: commits, OK: res.OK}
	if !res.OK {
		out.Output = res.Output
	}
	writeJSON(w, http.StatusOK, out)
}

// GitStage stages one file, or the whole working tree when file is empty.
func (h *Handlers) GitStage(w http.ResponseWriter, r *http.Request) {
	body, ok := readJSON[stageRequest](w, r)
	if !ok {
		return
	}
	h.writeGitOp(w, r, func(ctx context.Context, name string) (vcs.OpResult, error) {
		return h.Git.Stage(ctx, name, body.File)
	})
}

// GitUnstage removes one file from the index, or resets it entirely.
func (h *Handlers) GitUnstage(w http.ResponseWriter, r *http.Request) {
	body, ok := readJSON[stageRequest](w, r)
	if !ok {
		return
	}
	h.writeGitOp(w, r, func(ctx context.Context, name string) (vcs.OpResult, error) {
		return h.Git.Unstage(ctx, name, body.File)
	})
}

// GitCommit commits the staged changes, optionally pushing afterwards.
func (h *Handlers) GitCommit(w http.ResponseWriter, r *http.Request) {
	body, ok := readJSON[commitRequest](w, r)
	if !ok {
		return
	}
	h.writeGitOp(w, r, func(ctx context.Context, name string) (vcs.OpResult, error) {
		return h.Git.Commit(ctx, name, body.Message, body.Push)
	})
}

// GitCheckout switches the project to an existing branch.
func (h *Handlers) GitCheckout(w http.ResponseWriter, r *http.Request) {
	body, ok := readJSON[checkoutRequest](w, r)
	if !ok {
		return
	}
	h.writeGitOp(w, r, func(ctx context.Context, name string) (vcs.OpResult, error) {
		return h.Git.Checkout(ctx, name, body.Branch)
	})
}

// GitCreateBranch creates a branch, optionally checking it out.
func (h *Handlers) GitCreateBranch(w http.ResponseWriter, r *http.Request) {
	body, ok := readJSON[createBranchRequest](w, r)
	if !ok {
		return
	}
	h.writeGitOp(w, r, func(ctx context.Context, name string) (vcs.OpResult, error) {
		return h.Git.CreateBranch(ctx, name, body.Name, body.Checkout)
	})
}

// handleGitOp adapts a body-less git mutation into an HTTP handler.
func (h *Handlers) handleGitOp(op func(ctx context.Context, name string) (vcs.OpResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeGitOp(w, r, op)
	}
}

// writeGitOp runs a git mutation for the project in the URL and writes the
// uniform {ok, output} result. A failed command is 200 with ok=false; only
// unknown projects and invalid input are transport errors.
func (h *Handlers) writeGitOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, name string) (vcs.OpResult, error)) {
	res, err := op(r.Context(), urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Docker Endpoints ---

type containersResponse struct {
	OK         bool               `json:"ok"`
	Containers []docker.Container `json:"containers"`
}

type imagesResponse struct {
	OK     bool           `json:"ok"`
	Images []docker.Image `json:"images"`
}

// DockerStatus reports engine availability and breaker state.
func (h *Handlers) DockerStatus(w http.ResponseWriter, r *http.Request) {
	if h.Docker == nil {
		writeError(w, http.StatusServiceUnavailable, "docker integration disabled")
		return
	}
	writeJSON(w, http.StatusOK, h.Docker.Status(r.Context()))
}

// DockerContainers lists all containers, running or not.
func (h *Handlers) DockerContainers(w http.ResponseWriter, r *http.Request) {
	if h.Docker == nil {
		writeError(w, http.StatusServiceUnavailable, "docker integration disabled")
		return
	}
	containers, ok := h.Docker.Containers(r.Context())
	writeJSON(w, http.StatusOK, containersResponse{OK: ok, Containers: containers})
}

// DockerImages lists local images.
func (h *Handlers) DockerImages(w http.ResponseWriter, r *http.Request) {
	if h.Docker == nil {
		writeError(w, http.StatusServiceUnavailable, "docker integration disabled")
		return
	}
	images, ok := h.Docker.Images(r.Context())
	writeJSON(w, http.StatusOK, imagesResponse{OK: ok, Images: images})
}

// --- Script Endpoints ---

// RunScript executes a whitelisted project script and returns its result.
// Script failure is reported in the body, not the status code.
func (h *Handlers) RunScript(w http.ResponseWriter, r *http.Request) {
	if h.Scripts == nil {
		writeError(w, http.StatusServiceUnavailable, "script execution disabled")
		return
	}
	run, err := h.Scripts.Run(r.Context(), urlParam(r, "name"), urlParam(r, "action"))
	if err != nil {
		writeDomainError(w, err, "project or script not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
