package history

import (
	gogit "github.com/go-git/go-git/v5"
)

// ResolveCommit returns the short commit hash of the checkout containing
// root, or "" when root is not inside a git repository.
func ResolveCommit(root string) string {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	hash := head.Hash().String()
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return hash
}
