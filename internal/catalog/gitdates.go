package catalog

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
)

// EnrichLastUpdated fills the LastUpdated field of projects that do not
// declare one, using the committer date of the last commit touching the
// project directory. Best-effort: when root is not inside a git work tree
// the catalog is returned unchanged.
func EnrichLastUpdated(cat *Catalog, root string) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("Gallery root is not a git work tree, skipping last-updated enrichment",
			logfields.Path(root), logfields.Error(err))
		return
	}

	for i := range cat.Projects {
		p := &cat.Projects[i]
		if !p.LastUpdated.IsZero() {
			continue
		}
		when, err := lastCommitDate(repo, p.Path)
		if err != nil {
			slog.Debug("No commit history for project", logfields.Project(p.Path), logfields.Error(err))
			continue
		}
		p.LastUpdated = when
		slog.Debug("Resolved last-updated from git history",
			logfields.Project(p.Path), slog.String("date", when.Format("2006-01-02")))
	}
}

// lastCommitDate returns the committer date of the most recent commit that
// touched any file under the given directory prefix.
func lastCommitDate(repo *git.Repository, dir string) (time.Time, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	iter, err := repo.Log(&git.LogOptions{
		PathFilter: func(p string) bool {
			return strings.HasPrefix(p, prefix)
		},
	})
	if err != nil {
		return time.Time{}, err
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, err
	}
	return commit.Committer.When, nil
}
