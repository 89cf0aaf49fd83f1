// Package prompt provides simple interactive prompts on stderr.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt, used before destructive
//     operations such as a hard reset
package prompt
