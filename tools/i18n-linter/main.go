// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every message id used with i18n.T exists in the
// primary locale and that every other locale carries the same ids.
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// report is the outcome of one lint run.
type report struct {
	Undefined []string            // used in code, absent from the primary locale
	Orphaned  []string            // in the primary locale, never used
	Missing   map[string][]string // locale file -> ids it lacks
}

func (r report) failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, ids := range r.Missing {
		if len(ids) > 0 {
			return true
		}
	}
	return false
}

func main() {
	fmt.Println("🔍 Running i18n linter...")
	r, err := lint(projectRoot, localesDir)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	printList("Undefined (used in code, missing from "+primaryLocale+")", r.Undefined)
	printList("Orphaned (in "+primaryLocale+", not used in code)", r.Orphaned)
	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		printList("Missing in "+f, r.Missing[f])
	}

	if r.failed() {
		fmt.Println("❌ Found issues that need to be addressed.")
		os.Exit(1)
	}
	if len(r.Orphaned) > 0 {
		fmt.Println("⚠️  Found orphaned keys. Please consider removing them.")
		return
	}
	fmt.Println("✅ All translation files are consistent!")
}

func printList(title string, ids []string) {
	fmt.Printf("--- %s ---\n", title)
	if len(ids) == 0 {
		fmt.Println("  ✨ None found.")
		return
	}
	for _, id := range ids {
		fmt.Printf("  - %s\n", id)
	}
}

func lint(root, locales string) (report, error) {
	used, prefixes, err := findUsedKeys(root)
	if err != nil {
		return report{}, fmt.Errorf("scanning sources: %w", err)
	}
	primary, err := loadKeysFromLocale(filepath.Join(locales, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("loading primary locale: %w", err)
	}

	r := report{Missing: map[string][]string{}}
	for id := range used {
		if _, ok := primary[id]; !ok {
			r.Undefined = append(r.Undefined, id)
		}
	}
	for id := range primary {
		if _, ok := used[id]; ok || hasPrefix(id, prefixes) {
			continue
		}
		r.Orphaned = append(r.Orphaned, id)
	}

	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return report{}, fmt.Errorf("loading %s: %w", file, err)
		}
		var missing []string
		for id := range primary {
			if _, ok := keys[id]; !ok {
				missing = append(missing, id)
			}
		}
		sort.Strings(missing)
		r.Missing[filepath.Base(file)] = missing
	}

	sort.Strings(r.Undefined)
	sort.Strings(r.Orphaned)
	return r, nil
}

func hasPrefix(id string, prefixes map[string]struct{}) bool {
	for p := range prefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}

// usedKeyRe matches i18n.T("id") and the dynamic form i18n.T("prefix."+x).
var usedKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"(\s*\+)?`)

// findUsedKeys scans non-test Go files below root. Directories starting with
// "_" or "." and the tools directory are skipped.
func findUsedKeys(root string) (keys, prefixes map[string]struct{}, err error) {
	keys = map[string]struct{}{}
	prefixes = map[string]struct{}{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range usedKeyRe.FindAllStringSubmatch(string(content), -1) {
			if m[2] != "" {
				prefixes[m[1]] = struct{}{}
			} else {
				keys[m[1]] = struct{}{}
			}
		}
		return nil
	})
	return keys, prefixes, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into dot-separated keys.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			newPrefix := k
			if prefix != "" {
				newPrefix = prefix + "." + k
			}
			flattenYAML(newPrefix, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
