//go:build !unix

package classifier

import "os/exec"

// Without process groups only the direct process is killed; WaitDelay still
// bounds the wait for its output.
func killGroupOnCancel(cmd *exec.Cmd) {}
