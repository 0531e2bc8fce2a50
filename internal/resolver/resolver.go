// Package resolver finds-or-creates the remote repository matching a
// project identity. Repositories are re-resolved on every push rather than
// cached, so renames or deletions done out-of-band on the server are
// tolerated.
package resolver

import (
	"github.com/docscantools/docsync/internal/gogs"
	"github.com/docscantools/docsync/internal/logger"
	"github.com/docscantools/docsync/internal/project"
)

// DefaultSearchLimit caps candidate fetches during Find. Server-side
// search is a substring match, so a slug like en_ulb_mat_text also turns
// up custom_en_ulb_mat_text_l3 and friends; 100 covers realistic
// collision counts.
const DefaultSearchLimit = 100

// Resolver looks up remote repositories for project identities.
type Resolver struct {
	api   *gogs.Client
	limit int
	log   logger.Logger
}

// New creates a Resolver. limit <= 0 selects DefaultSearchLimit.
func New(api *gogs.Client, limit int) *Resolver {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Resolver{
		api:   api,
		limit: limit,
		log:   logger.NewEnvLogger("[resolver]"),
	}
}

// SetLogger replaces the resolver's logger.
func (r *Resolver) SetLogger(l logger.Logger) {
	r.log = l
}

// EnsureExists creates the remote repository named after the identity's
// slug. "Already exists" (409) counts as success, which makes creation
// idempotent. Any other failure is logged and returns false.
func (r *Resolver) EnsureExists(id project.Identity, user *gogs.User) bool {
	_, err := r.api.CreateRepo(user, id.Slug())
	if err == nil {
		return true
	}
	if gogs.IsStatus(err, 409) {
		return true
	}
	r.log.Error("failed to create repository %s: %v", id.Slug(), err)
	return false
}

// Find searches the server for the identity's repository and returns the
// exact owner+name match with full detail (including the SSH clone URL),
// or nil when absent. Search results are substring matches, so sibling
// repositories sharing a name prefix are filtered out client-side.
func (r *Resolver) Find(id project.Identity, user *gogs.User) *gogs.Repository {
	query := id.Slug()
	if query == "" {
		// Some backends reject empty search terms.
		query = "_"
	}

	candidates, err := r.api.SearchRepos(query, user.ID, r.limit)
	if err != nil {
		r.log.Error("repository search for %s failed: %v", query, err)
		return nil
	}

	for _, candidate := range candidates {
		if candidate.Owner == nil {
			continue
		}
		// Detail fetch fills in clone URLs the search omits.
		detail, err := r.api.GetRepo(user, candidate.Owner.Username, candidate.Name)
		if err != nil {
			r.log.Warn("fetching detail for %s/%s: %v", candidate.Owner.Username, candidate.Name, err)
			continue
		}
		if detail.Owner != nil && detail.Owner.Username == user.Username && detail.Name == id.Slug() {
			return detail
		}
	}
	return nil
}

// Resolve is EnsureExists followed by Find: on first use the repository
// exists before the search runs, and later the creation call is a
// harmless no-op.
func (r *Resolver) Resolve(id project.Identity, user *gogs.User) *gogs.Repository {
	r.EnsureExists(id, user)
	return r.Find(id, user)
}
