package gitctx

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
	// Remote is the first URL of the "origin" remote, if any.
	Remote string
}

func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return repo, nil
}

// GetRepoMeta collects repository metadata for the repository containing dir.
// Head and Branch are empty in a repository with no commits.
func GetRepoMeta(dir string) (RepoMeta, error) {
	repo, err := open(dir)
	if err != nil {
		return RepoMeta{}, err
	}

	var meta RepoMeta
	if wt, err := repo.Worktree(); err == nil {
		meta.Root = wt.Filesystem.Root()
	}

	head, err := repo.Head()
	switch {
	case err == nil:
		meta.Head = head.Hash().String()
		if head.Name().IsBranch() {
			meta.Branch = head.Name().Short()
		}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// new repo with no commits
	default:
		return RepoMeta{}, fmt.Errorf("resolving HEAD: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			meta.Remote = urls[0]
		}
	} else if !errors.Is(err, git.ErrRemoteNotFound) {
		return RepoMeta{}, fmt.Errorf("reading origin remote: %w", err)
	}
	return meta, nil
}

// ChangedFiles lists the paths added or modified between base and HEAD,
// sorted. Deleted paths are omitted since there is nothing left to review.
func ChangedFiles(dir, base string) ([]string, error) {
	repo, err := open(dir)
	if err != nil {
		return nil, err
	}

	baseTree, err := treeAt(repo, base)
	if err != nil {
		return nil, err
	}
	headTree, err := treeAt(repo, "HEAD")
	if err != nil {
		return nil, err
	}

	changes, err := baseTree.Diff(headTree)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..HEAD: %w", base, err)
	}

	files := make([]string, 0, len(changes))
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, fmt.Errorf("classifying change: %w", err)
		}
		if action == merkletrie.Delete {
			continue
		}
		files = append(files, c.To.Name)
	}
	sort.Strings(files)
	return files, nil
}

func treeAt(repo *git.Repository, rev string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", rev, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", rev, err)
	}
	return tree, nil
}
