package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/static"
	"github.com/raphi011/gitkit/internal/ui/styles"
)

// commitJSON is the JSON shape of a commit in "gitkit show".
type commitJSON struct {
	ID        git.Oid       `json:"id"`
	Tree      git.Oid       `json:"tree"`
	Parents   []git.Oid     `json:"parents"`
	Author    signatureJSON `json:"author"`
	Committer signatureJSON `json:"committer"`
	Message   string        `json:"message"`
}

type signatureJSON struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

type treeEntryJSON struct {
	Name string  `json:"name"`
	Mode string  `json:"mode"`
	Kind string  `json:"type"`
	ID   git.Oid `json:"id"`
}

func newShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "show <revision>",
		Short:   "Show an object",
		GroupID: GroupObjects,
		Args:    cobra.ExactArgs(1),
		Long: `Show the object a revision names.

Commits print their header fields and message, trees list their entries
and blobs print their content. Annotated tags are followed to the object
they point at.`,
		Example: `  gitkit show HEAD
  gitkit show HEAD^{tree}
  gitkit show HEAD:README.md
  gitkit show --json v1.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			obj, err := repo.RevparseSingle(ctx, args[0])
			if err != nil {
				return err
			}
			if obj.Kind() == git.ObjectTag {
				if obj, err = obj.Peel(ctx, git.ObjectAny); err != nil {
					return err
				}
			}

			if c, ok := obj.AsCommit(); ok {
				if jsonOutput {
					return out.JSON(toCommitJSON(c))
				}
				out.Print(formatCommit(c, out.IsTerminal(), time.Now()))
				return nil
			}
			if t, ok := obj.AsTree(); ok {
				if jsonOutput {
					return out.JSON(toTreeJSON(t))
				}
				out.Print(formatTree(t))
				return nil
			}
			if b, ok := obj.AsBlob(); ok {
				if jsonOutput {
					return out.JSON(map[string]any{"id": b.ID(), "size": b.Size(), "binary": b.IsBinary()})
				}
				if b.IsBinary() && out.IsTerminal() {
					out.Printf("binary blob %s (%s)\n", b.ID(), humanize.IBytes(uint64(b.Size())))
					return nil
				}
				out.Print(string(b.Content()))
				return nil
			}
			return fmt.Errorf("cannot show %s object %s", obj.Kind(), obj.ID())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// formatCommit renders a commit header and message. On terminals dates
// are shown relative to now.
func formatCommit(c *git.Commit, relative bool, now time.Time) string {
	when := func(s git.Signature) string {
		if relative {
			return humanize.RelTime(s.When, now, "ago", "from now")
		}
		return s.When.Format(time.RFC3339)
	}

	parents := make([]string, 0, c.ParentCount())
	for _, p := range c.ParentIDs() {
		parents = append(parents, p.String())
	}

	author, committer := c.Author(), c.Committer()
	fields := [][2]string{
		{"commit", styles.AccentStyle.Render(c.ID().String())},
		{"tree", c.TreeID().String()},
		{"parents", orDash(strings.Join(parents, " "))},
		{"author", fmt.Sprintf("%s <%s> %s", author.Name, author.Email, when(author))},
		{"committer", fmt.Sprintf("%s <%s> %s", committer.Name, committer.Email, when(committer))},
	}

	var b strings.Builder
	b.WriteString(static.RenderFields(fields))
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimRight(c.Message(), "\n"), "\n") {
		b.WriteString("    " + line + "\n")
	}
	return b.String()
}

// formatTree renders tree entries as a table.
func formatTree(t *git.Tree) string {
	rows := make([][]string, 0, t.Len())
	for _, e := range t.Entries() {
		rows = append(rows, []string{fmt.Sprintf("%06o", e.Mode), e.Kind.String(), e.ID.String(), e.Name})
	}
	return static.RenderTable([]string{"MODE", "TYPE", "ID", "NAME"}, rows)
}

func toSignatureJSON(s git.Signature) signatureJSON {
	return signatureJSON{Name: s.Name, Email: s.Email, When: s.When}
}

func toCommitJSON(c *git.Commit) commitJSON {
	parents := c.ParentIDs()
	if parents == nil {
		parents = []git.Oid{}
	}
	return commitJSON{
		ID:        c.ID(),
		Tree:      c.TreeID(),
		Parents:   parents,
		Author:    toSignatureJSON(c.Author()),
		Committer: toSignatureJSON(c.Committer()),
		Message:   c.Message(),
	}
}

func toTreeJSON(t *git.Tree) []treeEntryJSON {
	entries := make([]treeEntryJSON, 0, t.Len())
	for _, e := range t.Entries() {
		entries = append(entries, treeEntryJSON{
			Name: e.Name,
			Mode: fmt.Sprintf("%06o", e.Mode),
			Kind: e.Kind.String(),
			ID:   e.ID,
		})
	}
	return entries
}
