// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

// ConstantsTemplate is the ssu constants file before materialization.
const ConstantsTemplate = `// SPDX-License-Identifier: MIT
pragma solidity >=0.8.24;

bytes16 constant SSU_SYSTEM_NAMESPACE = "%SSU_NAMESPACE%";
`

// SetupTestProject creates a temporary project with a config file, an ssu
// template and two world declarations. It returns the project root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	dirs := []string{
		filepath.Join(tmpDir, "packages", "ssu", "src", "systems"),
		filepath.Join(tmpDir, "packages", "gates"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	files := map[string]string{
		"worldctl.yaml": `packages_dir: packages
packages:
  ssu:
    namespace_env: SSU_NAMESPACE
    template: ssu/src/systems/constants.sol
`,
		filepath.Join("packages", "ssu", "src", "systems", "constants.sol"): ConstantsTemplate,
		filepath.Join("packages", "ssu", "world.yaml"): `namespace_env: SSU_NAMESPACE
systems:
  SSUSystem:
    register_world_functions: false
`,
		filepath.Join("packages", "gates", "world.yaml"): `namespace_env: GATES_NAMESPACE
tables:
  Gates:
    schema:
      gateId: uint256
      defaultRule: bool
      createdAt: uint256
    key: [gateId]
  GatesCorpExceptions:
    schema:
      gateId: uint256
      corpId: uint256
      active: bool
    key: [gateId, corpId]
systems:
  GateAccessSystem:
    register_world_functions: false
`,
	}
	for name, content := range files {
		WriteFile(t, filepath.Join(tmpDir, name), content)
	}

	return tmpDir
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
