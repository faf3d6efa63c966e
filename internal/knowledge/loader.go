// Package knowledge loads the knowledge base from disk into passages.
// It understands three source shapes: the fixed structured files
// (course_data.json, crescent_qa.json), the categorised knowledge.json
// mapping, and loose text documents under docs/.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/crescentlabs/crescentbot/internal/chunker"
	"github.com/crescentlabs/crescentbot/internal/core/domain"
	"github.com/crescentlabs/crescentbot/internal/logger"
)

// Structured knowledge files looked up by name in the data directory.
var structuredFiles = []string{"course_data.json", "crescent_qa.json"}

// knowledgeFile is the categorised mapping file.
const knowledgeFile = "knowledge.json"

// docsSubdir holds loose text documents.
const docsSubdir = "docs"

// Document extensions accepted from the docs directory.
var docExtensions = map[string]bool{".txt": true, ".md": true}

// Loader reads knowledge sources and chunks them into passages.
// Structured Q&A entries use the short word budget; loose documents
// use the default budget.
type Loader struct {
	qa   *chunker.Chunker
	docs *chunker.Chunker
}

// Config holds the chunking budgets for the two source kinds.
type Config struct {
	// QAMaxTokens is the word budget for structured entries
	// (default chunker.QAMaxTokens).
	QAMaxTokens int

	// DocMaxTokens is the word budget for loose documents
	// (default chunker.DefaultMaxTokens).
	DocMaxTokens int

	// Overlap is the shared word count between adjacent chunks
	// (default chunker.DefaultOverlap, capped below the QA budget).
	Overlap int
}

// NewLoader creates a loader. Invalid budgets surface immediately as
// configuration errors.
func NewLoader(cfg Config) (*Loader, error) {
	if cfg.QAMaxTokens == 0 {
		cfg.QAMaxTokens = chunker.QAMaxTokens
	}
	if cfg.DocMaxTokens == 0 {
		cfg.DocMaxTokens = chunker.DefaultMaxTokens
	}
	if cfg.Overlap == 0 {
		cfg.Overlap = chunker.DefaultOverlap
	}

	qaOverlap := cfg.Overlap
	if qaOverlap >= cfg.QAMaxTokens {
		qaOverlap = cfg.QAMaxTokens / 4
	}

	qa, err := chunker.New(cfg.QAMaxTokens, qaOverlap)
	if err != nil {
		return nil, err
	}
	docs, err := chunker.New(cfg.DocMaxTokens, cfg.Overlap)
	if err != nil {
		return nil, err
	}
	return &Loader{qa: qa, docs: docs}, nil
}

// Load reads every knowledge source under dir and returns the passage
// stream. Missing or unreadable files are skipped with a warning;
// ending up with zero passages across all sources is
// domain.ErrEmptyKnowledgeBase, which callers may explicitly tolerate
// when an empty knowledge base is acceptable.
func (l *Loader) Load(dir string) ([]domain.Passage, error) {
	var passages []domain.Passage

	for _, name := range structuredFiles {
		ps, err := l.loadStructured(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("Skipping %s: %v", name, err)
			continue
		}
		logger.Debug("Loaded %d passages from %s", len(ps), name)
		passages = append(passages, ps...)
	}

	if ps, err := l.loadCategorised(filepath.Join(dir, knowledgeFile)); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Skipping %s: %v", knowledgeFile, err)
		}
	} else {
		logger.Debug("Loaded %d passages from %s", len(ps), knowledgeFile)
		passages = append(passages, ps...)
	}

	ps, err := l.loadDocs(filepath.Join(dir, docsSubdir))
	if err != nil && !os.IsNotExist(err) {
		logger.Warn("Skipping documents: %v", err)
	}
	passages = append(passages, ps...)

	if len(passages) == 0 {
		return nil, fmt.Errorf("%w: no passages under %s", domain.ErrEmptyKnowledgeBase, dir)
	}
	logger.Info("Knowledge base loaded: %d passages", len(passages))
	return passages, nil
}

// loadStructured reads a structured file whose top level is either a
// mapping of key -> record or a flat list of records. Each entry is
// stringified and chunked independently with the Q&A budget. Passage
// IDs derive from (file name, key, chunk ordinal) so identical content
// always produces identical IDs.
func (l *Loader) loadStructured(path string) ([]domain.Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	name := filepath.Base(path)
	var passages []domain.Passage
	emit := func(key, text string) {
		for i, chunk := range l.qa.Split(text) {
			passages = append(passages, domain.Passage{
				ID:     fmt.Sprintf("%s_%s_%d", name, key, i),
				Source: name,
				Title:  fmt.Sprintf("%s/%s", strings.TrimSuffix(name, ".json"), key),
				Text:   chunk,
			})
		}
	}

	switch v := raw.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			emit(key, stringify(v[key]))
		}
	case []any:
		for i, item := range v {
			emit(fmt.Sprintf("%d", i), stringify(item))
		}
	default:
		return nil, fmt.Errorf("%w: unsupported top-level shape", domain.ErrInvalidInput)
	}
	return passages, nil
}

// loadCategorised reads knowledge.json: category -> (key -> text).
// Categories mapping to plain values are chunked as a single entry.
func (l *Loader) loadCategorised(path string) ([]domain.Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var kb map[string]any
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	name := filepath.Base(path)
	var passages []domain.Passage
	for _, cat := range sortedKeys(kb) {
		switch entries := kb[cat].(type) {
		case map[string]any:
			for _, key := range sortedKeys(entries) {
				text := fmt.Sprintf("[%s/%s] %s", cat, key, stringify(entries[key]))
				for i, chunk := range l.qa.Split(text) {
					passages = append(passages, domain.Passage{
						ID:     fmt.Sprintf("%s_%s/%s_%d", name, cat, key, i),
						Source: name,
						Title:  fmt.Sprintf("KB:%s/%s", cat, key),
						Text:   chunk,
					})
				}
			}
		default:
			for i, chunk := range l.qa.Split(stringify(entries)) {
				passages = append(passages, domain.Passage{
					ID:     fmt.Sprintf("%s_%s_%d", name, cat, i),
					Source: name,
					Title:  fmt.Sprintf("KB:%s", cat),
					Text:   chunk,
				})
			}
		}
	}
	return passages, nil
}

// loadDocs reads loose .txt and .md files, chunked with the default
// budget. Unreadable files are skipped with a warning.
func (l *Loader) loadDocs(dir string) ([]domain.Passage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var passages []domain.Passage
	for _, entry := range entries {
		if entry.IsDir() || !docExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("Skipping document %s: %v", entry.Name(), err)
			continue
		}
		for i, chunk := range l.docs.Split(string(data)) {
			passages = append(passages, domain.Passage{
				ID:     fmt.Sprintf("%s_%d", entry.Name(), i),
				Source: entry.Name(),
				Title:  entry.Name(),
				Text:   chunk,
			})
		}
	}
	return passages, nil
}

// stringify renders a JSON value as passage text. Strings pass
// through; records flatten to "key: value" lines in key order so the
// output is deterministic.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		parts := make([]string, 0, len(t))
		for _, k := range sortedKeys(t) {
			parts = append(parts, fmt.Sprintf("%s: %s", k, stringify(t[k])))
		}
		return strings.Join(parts, ". ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ". ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
