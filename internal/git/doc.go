// Package git is an owned-handle API over the git executable.
//
// A [Repository] owns one engine session: the resolved control directory and
// work tree, the active namespace, and a long-lived `git cat-file --batch`
// process that serves object reads. [Repository.Close] releases the session
// exactly once. Every other value in this package (objects, references,
// branches, iterators, remotes, submodules, the index and the configuration)
// is produced by a repository method, keeps a pointer back to it, and fails
// with [ErrClosed] once the repository is closed.
//
// # Opening
//
//   - [Open]: open an existing repository, bare or not, without searching
//     parent directories
//   - [Init], [InitBare]: create a repository in an existing directory
//   - [Clone], [NewRepoBuilder]: clone, optionally bare, single-branch or
//     shallow
//
// # Errors
//
// Failed engine calls pass through one translation point and come back as
// [*Error] values carrying an [ErrorCode] and an [ErrorClass]. Use
// [errors.Is] with the sentinels ([ErrNotFound], [ErrExists],
// [ErrNonFastForward], ...) or [IsCode].
//
// When the engine reports success but its output does not have the
// documented shape, the package panics: the handle would otherwise describe
// state it cannot model.
//
// # Iteration
//
// [Repository.References], [Repository.ReferencesGlob] and
// [Repository.Branches] return single-pass cursors over a running
// `git for-each-ref`. Walking again needs a new cursor. Submodules are
// collected into a slice in .gitmodules order.
//
// # Concurrency
//
// Handles are not safe for concurrent use. Every call blocks until the
// engine process it starts has exited.
package git
