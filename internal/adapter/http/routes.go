package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", h.VersionInfo)

		// Projects
		r.Get("/projects", h.ListProjects)
		r.Post("/projects/scan", h.ScanProjects)
		r.Get("/projects/{name}", h.GetProject)

		// Durable scan history
		r.Get("/catalog", h.ListCatalog)

		// Git (nested under projects)
		r.Get("/projects/{name}/git", h.GitInfo)
		r.Post("/projects/{name}/git/refresh", h.GitRefresh)
		r.Get("/projects/{name}/git/branches", h.GitBranches)
		r.Post("/projects/{name}/git/branches", h.GitCreateBranch)
		r.Get("/projects/{name}/git/commits", h.GitCommits)
		r.Post("/projects/{name}/git/stage", h.GitStage)
		r.Post("/projects/{name}/git/unstage", h.GitUnstage)
		r.Post("/projects/{name}/git/commit", h.GitCommit)
		r.Post("/projects/{name}/git/push", h.handleGitOp(h.Git.Push))
		r.Post("/projects/{name}/git/pull", h.handleGitOp(h.Git.Pull))
		r.Post("/projects/{name}/git/stash", h.handleGitOp(h.Git.Stash))
		r.Post("/projects/{name}/git/stash/pop", h.handleGitOp(h.Git.PopStash))
		r.Post("/projects/{name}/git/checkout", h.GitCheckout)

		// Scripts
		r.Post("/projects/{name}/scripts/{action}", h.RunScript)

		// Docker
		r.Get("/docker/status", h.DockerStatus)
		r.Get("/docker/containers", h.DockerContainers)
		r.Get("/docker/images", h.DockerImages)
	})
}
