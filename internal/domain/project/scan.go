package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxManifestRead is the maximum bytes to read from a manifest file for
// framework detection.
const maxManifestRead = 64 * 1024

// ScanOptions bound a root scan.
type ScanOptions struct {
	MarkerFile string // defaults to InfoFile
	MaxDepth   int    // directory levels below the root, defaults to 3
}

// ScanRoot walks the root for directories carrying the marker file and
// returns their paths in walk order. Hidden directories are skipped, the
// walk stops at MaxDepth, and it never descends into a confirmed project.
func ScanRoot(root string, opts ScanOptions) ([]string, error) {
	marker := opts.MarkerFile
	if marker == "" {
		marker = InfoFile
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root: %s is not a directory", root)
	}

	found := []string{}
	walkFn := func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // unreadable subtree, keep walking
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if relDepth(root, path) > maxDepth {
			return filepath.SkipDir
		}
		if _, statErr := os.Stat(filepath.Join(path, marker)); statErr == nil {
			found = append(found, path)
			return filepath.SkipDir
		}
		return nil
	}
	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	return found, nil
}

// relDepth returns how many levels path sits below root; the root itself
// is depth 0.
func relDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Language is one detected language with the manifests that betrayed it and
// any frameworks found inside them.
type Language struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"` // 0.7 to 1.0, scaled by manifest count
	Manifests  []string `json:"manifests"`
	Frameworks []string `json:"frameworks,omitempty"`
}

// DetectStack inspects a project directory's top-level manifests and returns
// the detected languages, strongest confidence first. Only top-level entries
// are checked (no recursive walk).
func DetectStack(path string) []Language {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}

	langManifests := make(map[string][]string)  // language → manifest filenames
	manifestContents := make(map[string]string) // filename → content (cached for framework detection)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rule, ok := stackRules[entry.Name()]
		if !ok {
			continue
		}
		langManifests[rule.language] = append(langManifests[rule.language], entry.Name())

		if _, cached := manifestContents[entry.Name()]; !cached {
			manifestContents[entry.Name()] = readFileCapped(filepath.Join(path, entry.Name()), maxManifestRead)
		}
	}

	// tsconfig.json alongside package.json promotes the project to
	// typescript; either file alone keeps its own language.
	if _, hasTS := langManifests["typescript"]; hasTS {
		if jsManifests, hasJS := langManifests["javascript"]; hasJS {
			langManifests["typescript"] = append(langManifests["typescript"], jsManifests...)
			delete(langManifests, "javascript")
		}
	}

	languages := make([]Language, 0, len(langManifests))
	for lang, manifests := range langManifests {
		sort.Strings(manifests)
		languages = append(languages, Language{
			Name:       lang,
			Confidence: manifestConfidence(len(manifests)),
			Manifests:  manifests,
			Frameworks: detectFrameworks(manifests, manifestContents),
		})
	}
	sort.Slice(languages, func(i, j int) bool {
		if languages[i].Confidence != languages[j].Confidence {
			return languages[i].Confidence > languages[j].Confidence
		}
		return languages[i].Name < languages[j].Name
	})
	return languages
}

// manifestConfidence returns a confidence score based on the number of
// manifests found.
func manifestConfidence(count int) float64 {
	switch {
	case count >= 3:
		return 1.0
	case count == 2:
		return 0.9
	default:
		return 0.7
	}
}

// detectFrameworks probes the contents of the given manifests for known
// framework signatures. A framework is reported once even when several
// manifests carry its signature.
func detectFrameworks(manifests []string, contents map[string]string) []string {
	seen := make(map[string]bool)
	var frameworks []string
	for _, name := range manifests {
		content := contents[name]
		if content == "" {
			continue
		}
		for _, sig := range stackRules[name].signatures {
			if strings.Contains(content, sig.match) && !seen[sig.framework] {
				seen[sig.framework] = true
				frameworks = append(frameworks, sig.framework)
			}
		}
	}
	return frameworks
}

// readFileCapped reads up to maxBytes from a file, returning the content as
// a string. Returns empty string on any error.
func readFileCapped(path string, maxBytes int) string {
	f, err := os.Open(path) //nolint:gosec // path is the project dir plus a known manifest filename
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, maxBytes)
	n, _ := f.Read(buf)
	return string(buf[:n])
}
