package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescentlabs/crescentbot/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(Config{})
	require.NoError(t, err)
	return l
}

func TestLoad_StructuredMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "crescent_qa.json", `{
		"admission": "Admission requires five credits including English and Mathematics.",
		"hostel": "Hostel allocation opens two weeks before resumption."
	}`)

	passages, err := newTestLoader(t).Load(dir)
	require.NoError(t, err)
	require.Len(t, passages, 2)

	// Keys iterate sorted, so IDs are stable across runs.
	assert.Equal(t, "crescent_qa.json_admission_0", passages[0].ID)
	assert.Equal(t, "crescent_qa.json_hostel_0", passages[1].ID)
	assert.Equal(t, "crescent_qa.json", passages[0].Source)
	assert.Contains(t, passages[0].Text, "five credits")
}

func TestLoad_StructuredList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "course_data.json", `[
		{"department": "Computer Science", "level": 100, "course": "Introduction to Programming"},
		{"department": "Nursing", "level": 200, "course": "Human Anatomy"}
	]`)

	passages, err := newTestLoader(t).Load(dir)
	require.NoError(t, err)
	require.Len(t, passages, 2)

	assert.Equal(t, "course_data.json_0_0", passages[0].ID)
	// Record fields flatten in key order.
	assert.Equal(t,
		"course: Introduction to Programming. department: Computer Science. level: 100",
		passages[0].Text)
}

func TestLoad_Categorised(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "knowledge.json", `{
		"fees": {
			"undergraduate": "Undergraduate fees are published on the bursary page.",
			"postgraduate": "Postgraduate fees vary by programme."
		},
		"motto": "Knowledge for Service"
	}`)

	passages, err := newTestLoader(t).Load(dir)
	require.NoError(t, err)
	require.Len(t, passages, 3)

	assert.Equal(t, "knowledge.json_fees/postgraduate_0", passages[0].ID)
	assert.Equal(t, "KB:fees/postgraduate", passages[0].Title)
	assert.True(t, strings.HasPrefix(passages[0].Text, "[fees/postgraduate]"))
	assert.Equal(t, "knowledge.json_motto_0", passages[2].ID)
	assert.Equal(t, "Knowledge for Service", passages[2].Text)
}

func TestLoad_Docs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("docs", "handbook.txt"),
		"The student handbook covers conduct, dress code and examinations.")
	writeFile(t, dir, filepath.Join("docs", "notes.md"), "Orientation holds in the main hall.")
	writeFile(t, dir, filepath.Join("docs", "ignore.pdf"), "binary")

	passages, err := newTestLoader(t).Load(dir)
	require.NoError(t, err)
	require.Len(t, passages, 2)

	assert.Equal(t, "handbook.txt_0", passages[0].ID)
	assert.Equal(t, "handbook.txt", passages[0].Source)
	assert.Equal(t, "notes.md_0", passages[1].ID)
}

func TestLoad_LongEntryIsChunked(t *testing.T) {
	// An entry well past the Q&A budget splits into several passages
	// with sequential ordinals.
	words := make([]string, 0, 300)
	for i := 0; i < 30; i++ {
		words = append(words, "The registry processes transcripts requests within ten working days each semester.")
	}
	dir := t.TempDir()
	writeFile(t, dir, "crescent_qa.json", `{"transcripts": "`+strings.Join(words, " ")+`"}`)

	passages, err := newTestLoader(t).Load(dir)
	require.NoError(t, err)
	require.Greater(t, len(passages), 1)
	for i, p := range passages {
		assert.Equal(t, "crescent_qa.json", p.Source)
		assert.Equal(t, fmt.Sprintf("crescent_qa.json_transcripts_%d", i), p.ID)
	}
}

func TestLoad_SkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "course_data.json", `{not json`)
	writeFile(t, dir, "crescent_qa.json", `{"library": "The library opens 8am to 10pm on weekdays."}`)

	passages, err := newTestLoader(t).Load(dir)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "crescent_qa.json_library_0", passages[0].ID)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := newTestLoader(t).Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrEmptyKnowledgeBase)
}

func TestLoad_DeterministicIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "crescent_qa.json", `{
		"b": "Second entry.", "a": "First entry.", "c": "Third entry."
	}`)

	loader := newTestLoader(t)
	first, err := loader.Load(dir)
	require.NoError(t, err)
	second, err := loader.Load(dir)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestNewLoader_InvalidBudget(t *testing.T) {
	_, err := NewLoader(Config{DocMaxTokens: 50, Overlap: 50})
	assert.ErrorIs(t, err, domain.ErrInvalidChunking)
}
