package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsKB = `
units:
  - name: pets
    axioms:
      - Cat SubClassOf Mammal and Pet
      - Mammal SubClassOf Animal
      - Cat SubClassOf Animal
  - name: broken
    axioms:
      - Root SubClassOf P and not P
      - Child SubClassOf Root
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func writeKB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petsKB), 0o644))
	return path
}

func TestExplain_All(t *testing.T) {
	out, err := run(t, "explain", "--kb", writeKB(t), "-e", "Cat SubClassOf Animal", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "regular justifications for Cat SubClassOf Animal: 2")
	assert.Contains(t, out, "  1. Cat SubClassOf Animal\n")
	assert.Contains(t, out, "     Mammal SubClassOf Animal\n")
}

func TestExplain_First(t *testing.T) {
	out, err := run(t, "explain", "--kb", writeKB(t), "-e", "Cat SubClassOf Animal", "--first")
	require.NoError(t, err)
	assert.Contains(t, out, ": 1\n")
}

func TestExplain_Laconic(t *testing.T) {
	out, err := run(t, "explain", "--kb", writeKB(t), "-e", "Cat SubClassOf Mammal", "--kind", "laconic")
	require.NoError(t, err)
	assert.Contains(t, out, "laconic justifications for Cat SubClassOf Mammal: 1")
	assert.Contains(t, out, "  1. Cat SubClassOf Mammal\n")
}

func TestExplain_Errors(t *testing.T) {
	_, err := run(t, "explain", "-e", "Cat SubClassOf Animal")
	assert.ErrorContains(t, err, "--kb")

	_, err = run(t, "explain", "--kb", writeKB(t), "-e", "Cat IsA Animal")
	assert.Error(t, err)

	_, err = run(t, "explain", "--kb", writeKB(t), "-e", "Cat SubClassOf Animal", "--kind", "short")
	assert.Error(t, err)
}

func TestUnsat(t *testing.T) {
	out, err := run(t, "unsat", "--kb", writeKB(t))
	require.NoError(t, err)
	assert.Contains(t, out, "root     Root\n")
	assert.Contains(t, out, "derived  Child <- Root\n")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "justifier vdev\n", out)
}
