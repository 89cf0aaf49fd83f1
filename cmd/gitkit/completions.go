package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
)

// completeBranches provides local branch name completion, or
// remote-tracking ones when -r is set.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	repo, _, err := openRepo(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer repo.Close()

	kind := git.BranchLocal
	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		kind = git.BranchRemote
	}
	names, err := branchNames(ctx, repo, &kind)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeReferences provides full reference name completion.
func completeReferences(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	repo, _, err := openRepo(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer repo.Close()

	names, err := referenceNames(ctx, repo)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return append(names, "HEAD"), cobra.ShellCompDirectiveNoFileComp
}

// completeRevisions offers branch and tag short names as revisions.
func completeRevisions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	repo, _, err := openRepo(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer repo.Close()

	it, err := repo.References(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer it.Close()

	revs := []string{"HEAD"}
	for ref, err := range it.All() {
		if err != nil {
			break
		}
		revs = append(revs, ref.Shorthand())
	}
	return revs, cobra.ShellCompDirectiveNoFileComp
}

// completeRevisionsAt completes revisions for the positional argument at
// index pos only.
func completeRevisionsAt(pos int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != pos {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return completeRevisions(cmd, args, toComplete)
	}
}

// completeRemotes provides remote name completion.
func completeRemotes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()
	repo, _, err := openRepo(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer repo.Close()

	names, err := repo.Remotes(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
