package fonts

import (
	"io/fs"
	"os"
	"path"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// BaseDirs returns candidate font directories relative to the process working directory.
func BaseDirs() []string {
	return []string{"assets/fonts", "../../assets/fonts"}
}

// ScanDir returns slash-separated paths of every font file in fsys, in walk order.
func ScanDir(fsys fs.FS) ([]string, error) {
	var out []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isFont(p) {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func isFont(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and drops spaces, dashes and underscores so "Google Sans" matches
// "Google_Sans/GoogleSans-Regular.ttf".
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find returns the path in fsys of the font best matching search: a family name such as
// "Inter" or a partial path such as "Inter/Inter-Regular". A "Regular" face wins when a
// family has several.
func Find(fsys fs.FS, search string) (string, error) {
	norm := normalize(strings.TrimSuffix(strings.TrimSuffix(search, ".ttf"), ".otf"))
	if norm == "" {
		return "", fs.ErrNotExist
	}
	list, err := ScanDir(fsys)
	if err != nil {
		return "", err
	}
	var match string
	for _, p := range list {
		if !strings.Contains(normalize(p), norm) {
			continue
		}
		if strings.Contains(strings.ToLower(p), "regular") {
			return p, nil
		}
		if match == "" {
			match = p
		}
	}
	if match == "" {
		return "", fs.ErrNotExist
	}
	return match, nil
}

// Locate searches BaseDirs for search and returns a path usable from the working directory.
func Locate(search string) (string, error) {
	for _, base := range BaseDirs() {
		if _, err := os.Stat(base); err != nil {
			continue
		}
		if p, err := Find(os.DirFS(base), search); err == nil {
			return path.Join(base, p), nil
		}
	}
	return "", fs.ErrNotExist
}
