// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ToolChecker verifies that an external tool binary is present. The prober
// and transcoder tolerate a missing tool at request time; readiness still
// surfaces the degradation to operators.
type ToolChecker struct {
	name string
	// Resolve returns the binary path to check; evaluated per probe so
	// configuration changes are picked up.
	Resolve func() string
}

// NewToolChecker creates a checker for the named tool.
func NewToolChecker(name string, resolve func() string) *ToolChecker {
	return &ToolChecker{name: name, Resolve: resolve}
}

func (c *ToolChecker) Name() string { return c.name }

func (c *ToolChecker) Check(_ context.Context) CheckResult {
	bin := c.Resolve()
	if strings.ContainsRune(bin, filepath.Separator) {
		if fi, err := os.Stat(bin); err == nil && !fi.IsDir() {
			return CheckResult{Status: StatusHealthy, Message: bin}
		}
		return CheckResult{Status: StatusDegraded, Error: "binary not found: " + bin}
	}
	if p, err := exec.LookPath(bin); err == nil {
		return CheckResult{Status: StatusHealthy, Message: p}
	}
	return CheckResult{Status: StatusDegraded, Error: "binary not found on PATH: " + bin}
}
