package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is the directory on disk that shadows the embedded scenes and
// scripts, so edits under it win over the built-in copies.
const Dir = "prefabs"

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

// Load reads a scene file. name is tried as a path first, then under Dir,
// then among the embedded scenes.
func Load(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return readLayered(scenePath(name))
}

// LoadScript reads a driver script by name from Dir/scripts, falling back to
// the embedded copy.
func LoadScript(name string) ([]byte, error) {
	return readLayered(scriptPath(name))
}

// ScriptDir returns the on-disk script directory if there is one.
func ScriptDir() (string, bool) {
	dir := filepath.Join(Dir, "scripts")
	info, err := os.Stat(dir)
	return dir, err == nil && info.IsDir()
}

func readLayered(rel string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return embedded.ReadFile(rel)
}

// scenePath maps a scene name onto its slash path relative to Dir.
func scenePath(name string) string {
	s := path.Clean(filepath.ToSlash(name))
	return strings.TrimPrefix(s, Dir+"/")
}

// scriptPath maps "patrol.tengo", "scripts/patrol.tengo" and
// "prefabs/scripts/patrol.tengo" onto the same relative path.
func scriptPath(name string) string {
	s := scenePath(name)
	s = strings.TrimPrefix(s, "scripts/")
	return "scripts/" + s
}
