package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"ptsplit/internal/discovery"
	"ptsplit/internal/domain"
	"ptsplit/internal/logging"
	"ptsplit/internal/report"
)

// ErrBuildNotFound is returned when a build number has no record
var ErrBuildNotFound = errors.New("build not found")

const (
	recordFileName = "build.json"
	reportsDirName = "reports"
)

// FileStore keeps build records on disk, one directory per build number:
//
//	<dir>/<number>/build.json
//	<dir>/<number>/reports/**/*.xml
type FileStore struct {
	dir     string
	scanner *discovery.Scanner
}

// NewFileStore returns a store rooted at dir. The scanner finds report files
// inside each build's reports directory.
func NewFileStore(dir string, scanner *discovery.Scanner) *FileStore {
	return &FileStore{dir: dir, scanner: scanner}
}

// Dir returns the root directory of the store
func (s *FileStore) Dir() string {
	return s.dir
}

// Numbers lists recorded build numbers in ascending order
func (s *FileStore) Numbers() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var numbers []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil || n <= 0 {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}

// NextNumber returns the number the next recorded build should use
func (s *FileStore) NextNumber() (int, error) {
	numbers, err := s.Numbers()
	if err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 1, nil
	}
	return numbers[len(numbers)-1] + 1, nil
}

// Pending returns a handle for a build that is in progress and not yet
// recorded. Its Previous is the newest recorded build below number.
func (s *FileStore) Pending(number int) *FileBuild {
	return &FileBuild{store: s, record: domain.BuildRecord{Number: number}}
}

// Open loads a recorded build
func (s *FileStore) Open(number int) (*FileBuild, error) {
	path := filepath.Join(s.buildDir(number), recordFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: #%d", ErrBuildNotFound, number)
		}
		return nil, fmt.Errorf("read build record: %w", err)
	}

	var record domain.BuildRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// An unreadable record has no accepted result and is skipped by lookups
		logging.Warn("history", "Unreadable build record %s: %v", path, err)
		record = domain.BuildRecord{}
	}
	record.Number = number
	return &FileBuild{store: s, record: record}, nil
}

// Record writes a build record and copies the given report files into it,
// preserving their paths relative to reportsRoot. Existing reports of the
// same build are replaced.
func (s *FileStore) Record(record domain.BuildRecord, reportsRoot string, reportFiles []string) error {
	if record.Number <= 0 {
		return fmt.Errorf("invalid build number %d", record.Number)
	}
	dir := s.buildDir(record.Number)
	reportsDir := filepath.Join(dir, reportsDirName)
	if err := os.RemoveAll(reportsDir); err != nil {
		return fmt.Errorf("clear archived reports: %w", err)
	}
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}

	for _, src := range reportFiles {
		rel, err := filepath.Rel(reportsRoot, src)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(src)
		}
		if err := copyFile(src, filepath.Join(reportsDir, rel)); err != nil {
			return fmt.Errorf("archive report %s: %w", src, err)
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, recordFileName), data, 0644); err != nil {
		return fmt.Errorf("write build record: %w", err)
	}
	return nil
}

func (s *FileStore) buildDir(number int) string {
	return filepath.Join(s.dir, strconv.Itoa(number))
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// FileBuild is a build backed by a FileStore directory
type FileBuild struct {
	store  *FileStore
	record domain.BuildRecord
}

// Number returns the build number
func (b *FileBuild) Number() int {
	return b.record.Number
}

// Result returns the recorded aggregate outcome
func (b *FileBuild) Result() domain.BuildResult {
	return b.record.Result
}

// Record returns the persisted metadata
func (b *FileBuild) Record() domain.BuildRecord {
	return b.record
}

// Previous returns the newest recorded build with a lower number
func (b *FileBuild) Previous() (Build, error) {
	numbers, err := b.store.Numbers()
	if err != nil {
		return nil, err
	}
	i := sort.SearchInts(numbers, b.record.Number)
	if i == 0 {
		return nil, nil
	}
	prev, err := b.store.Open(numbers[i-1])
	if errors.Is(err, ErrBuildNotFound) {
		// Directory without a record, e.g. an interrupted archive
		return b.store.Pending(numbers[i-1]), nil
	}
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// TestReport parses the archived JUnit reports of the build
func (b *FileBuild) TestReport() (*report.Node, error) {
	dir := filepath.Join(b.store.buildDir(b.record.Number), reportsDirName)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	files, err := b.store.scanner.Scan(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	tree, err := report.ParseFiles(files)
	if err != nil {
		return nil, err
	}
	tree.Name = fmt.Sprintf("#%d", b.record.Number)
	return tree, nil
}
