package catalog

import (
	"encoding/json"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"quizzer-backend/logging"
)

const videoExt = ".mp4"

// Builder scans a content root for video/annotation pairs and produces the
// in-memory entry index. One bad file never aborts the scan.
type Builder struct {
	root string
	log  *logging.Logger
}

func NewBuilder(root string, log *logging.Logger) *Builder {
	return &Builder{root: root, log: log}
}

// Build walks the content root and returns the index keyed by entry id.
// A missing root is not an error: it yields an empty catalog and a warning.
func (b *Builder) Build() map[string]*Entry {
	entries := make(map[string]*Entry)

	root, err := filepath.Abs(b.root)
	if err != nil {
		b.log.Warn("content root is not resolvable", "root", b.root, "err", err)
		return entries
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		b.log.Warn("content root not found", "root", root)
		return entries
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			b.log.Warn("walk error, skipping subtree", "path", path, "err", walkErr)
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), videoExt) {
			return nil
		}
		if entry := b.loadEntry(root, path); entry != nil {
			entries[entry.ID] = entry
		}
		return nil
	})
	if err != nil {
		b.log.Warn("catalog walk aborted", "err", err)
	}

	b.log.Info("catalog loaded", "root", root, "entries", len(entries))
	return entries
}

// loadEntry builds one entry from a video file, or returns nil when the pair
// is incomplete or a resolved path escapes the content root.
func (b *Builder) loadEntry(root, videoPath string) *Entry {
	resolvedVideo, ok := b.resolveWithin(root, videoPath)
	if !ok {
		b.log.Warn("video outside content root, skipping", "path", videoPath)
		return nil
	}

	ext := filepath.Ext(resolvedVideo)
	base := strings.TrimSuffix(filepath.Base(resolvedVideo), ext)
	dir := filepath.Dir(resolvedVideo)
	jsonPath := filepath.Join(dir, base+".json")
	metaPath := filepath.Join(dir, base+videoExt+".json")

	if !fileExists(jsonPath) {
		return nil
	}
	resolvedJSON, ok := b.resolveWithin(root, jsonPath)
	if !ok {
		b.log.Warn("annotation outside content root, skipping", "path", jsonPath)
		return nil
	}

	var igMeta *IgMeta
	if fileExists(metaPath) {
		if resolvedMeta, ok := b.resolveWithin(root, metaPath); ok {
			igMeta = b.readIgMeta(resolvedMeta)
		}
	}

	ann := b.readAnnotation(resolvedJSON)

	rel, err := filepath.Rel(root, resolvedVideo)
	if err != nil {
		b.log.Warn("cannot relativize video path, skipping", "path", resolvedVideo, "err", err)
		return nil
	}
	id := filepath.ToSlash(strings.TrimSuffix(rel, ext))

	title := strings.TrimSpace(ann.Meta.TitleEN)
	if title == "" {
		title = base
	}

	return &Entry{
		ID:        id,
		Title:     title,
		Meta:      ann.Meta,
		Items:     ann.Items,
		Quiz:      ann.Quiz,
		UIHints:   ann.UIHints,
		IgMeta:    igMeta,
		VideoURL:  VideoURL(id),
		Counts:    ComputeCounts(ann.Items, ann.Quiz),
		VideoPath: resolvedVideo,
		JSONPath:  resolvedJSON,
	}
}

// readAnnotation parses and normalizes one annotation file. Malformed JSON
// yields a fully-defaulted record, never a failure.
func (b *Builder) readAnnotation(path string) Annotation {
	data, err := os.ReadFile(path)
	if err != nil {
		b.log.Warn("cannot read annotation, using defaults", "path", path, "err", err)
		return Normalize(nil)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		b.log.Warn("malformed annotation, using defaults", "path", path, "err", err)
		return Normalize(nil)
	}
	if _, ok := raw.(map[string]any); !ok {
		b.log.Warn("annotation is not an object, using defaults", "path", path)
	}
	return Normalize(raw)
}

func (b *Builder) readIgMeta(path string) *IgMeta {
	data, err := os.ReadFile(path)
	if err != nil {
		b.log.Warn("cannot read video metadata", "path", path, "err", err)
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		b.log.Warn("malformed video metadata", "path", path, "err", err)
		return nil
	}
	return ExtractIgMeta(raw)
}

// resolveWithin resolves a path (following symlinks) and verifies it still
// lies inside the content root. Crafted filenames or symlinks resolving
// elsewhere are rejected, not merely warned about.
func (b *Builder) resolveWithin(root, path string) (string, bool) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if r, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = r
	}
	if resolved == root || strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return resolved, true
	}
	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// VideoURL renders the public media locator for an entry id. Segments are
// percent-encoded one by one so ids containing "/" stay addressable.
func VideoURL(id string) string {
	parts := strings.Split(id, "/")
	encoded := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		encoded = append(encoded, url.PathEscape(p))
	}
	return "/data/" + strings.Join(encoded, "/") + videoExt
}
