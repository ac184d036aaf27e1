package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed all:templates
var templateFS embed.FS

// scaffoldFile is one file init wrote or left in place.
type scaffoldFile struct {
	Path    string `json:"path"`
	Package string `json:"package,omitempty"` // set for files under packages/<name>/
	Kept    bool   `json:"kept,omitempty"`    // already existed and was not overwritten
}

// scaffold writes the embedded template into targetDir. Existing files are
// kept unless force is set. Dotfiles are stored without their dot
// ("gitignore") so embed picks them up.
func scaffold(templateName, targetDir string, force bool) ([]scaffoldFile, error) {
	root := path.Join("templates", templateName)

	var files []scaffoldFile
	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if rel == "" {
			return nil
		}
		rel = dotfileName(rel)
		target := filepath.Join(targetDir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}

		f := scaffoldFile{Path: rel, Package: packageOf(rel)}
		if _, err := os.Stat(target); err == nil && !force {
			f.Kept = true
			files = append(files, f)
			return nil
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0600); err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	return files, err
}

func dotfileName(rel string) string {
	dir, base := path.Split(rel)
	if base == "gitignore" {
		return dir + ".gitignore"
	}
	return rel
}

// packageOf returns <name> for paths under packages/<name>/.
func packageOf(rel string) string {
	parts := strings.SplitN(rel, "/", 3)
	if len(parts) == 3 && parts[0] == "packages" {
		return parts[1]
	}
	return ""
}
