// Package cmd runs external processes and reports their failures with the
// text they printed to stderr.
//
// gitkit reaches its engine, the git executable, only through this package.
// Four shapes are offered:
//
//   - [RunContext] and [OutputContext]: fire a command in a directory, get
//     stdout or an error carrying stderr.
//   - [Exec]: the same with a [Request] (env, stdin). Non-zero exits come
//     back as [*ExitError] so callers can classify them.
//   - [Start]: a [*Stream] reading stdout line by line, for long listings
//     that should not be buffered whole.
//   - [StartDuplex]: a long-lived [*Duplex] driven over stdin and stdout,
//     used for the object reader.
//
// Every invocation is echoed through the context logger in verbose mode.
// A cancelled context kills the process and is returned unchanged.
package cmd
