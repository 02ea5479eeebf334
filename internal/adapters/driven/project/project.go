package project

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/manuscript-validator/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// Project file names.
const (
	IndexFile = "index.manuscript-json"
	DataDir   = "Data"
	Extension = ".manuproj"
)

// Format is the on-disk form of a project.
type Format int

const (
	// FormatArchive is a zip archive.
	FormatArchive Format = iota

	// FormatDirectory is a directory holding the index and Data.
	FormatDirectory

	// FormatIndex is a bare index file.
	FormatIndex
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatArchive:
		return "archive"
	case FormatDirectory:
		return "directory"
	case FormatIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Project is an opened manuscript project.
type Project struct {
	// Path is the path the project was opened from.
	Path   string
	Format Format

	// Document holds every model of the index. Fixes mutate it in place.
	Document *domain.Document

	// tempDir holds an extracted archive until Close.
	tempDir   string
	indexPath string
	fields    map[string]json.RawMessage
}

// Open reads the project at path.
func Open(path string) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening project: %w", err)
	}

	p := &Project{Path: path}
	switch {
	case info.IsDir():
		p.Format = FormatDirectory
		p.indexPath = filepath.Join(path, IndexFile)
	case isArchive(path):
		p.Format = FormatArchive
		if err := p.extract(); err != nil {
			_ = p.Close()
			return nil, err
		}
	default:
		p.Format = FormatIndex
		p.indexPath = path
	}

	if err := p.readIndex(); err != nil {
		_ = p.Close()
		return nil, err
	}

	logger.Debug("opened %s project %s with %d models", p.Format, path, p.Document.Len())
	return p, nil
}

func isArchive(path string) bool {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return true
	}
	mtype, err := mimetype.DetectFile(path)
	return err == nil && mtype.Is("application/zip")
}

// extract unpacks the archive into a temporary directory and locates the
// index, which may sit inside a single top-level folder.
func (p *Project) extract() error {
	dir, err := os.MkdirTemp("", "manuproj-*")
	if err != nil {
		return fmt.Errorf("creating extraction directory: %w", err)
	}
	p.tempDir = dir

	if err := unzip(p.Path, dir); err != nil {
		return err
	}
	p.indexPath, err = findIndex(dir)
	return err
}

func unzip(archive, dir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		if r != nil {
			r.Close()
		}
		return fmt.Errorf("reading archive %s: %w: %w", archive, domain.ErrInvalidInput, err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dir, filepath.FromSlash(f.Name))
		if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes the project: %w", f.Name, domain.ErrInvalidInput)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o700); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// findIndex returns the shallowest index file under dir.
func findIndex(dir string) (string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == IndexFile {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", fmt.Errorf("archive has no %s: %w", IndexFile, domain.ErrInvalidInput)
	}
	sort.Slice(found, func(i, j int) bool {
		di := strings.Count(found[i], string(os.PathSeparator))
		dj := strings.Count(found[j], string(os.PathSeparator))
		if di != dj {
			return di < dj
		}
		return found[i] < found[j]
	})
	return found[0], nil
}

func (p *Project) readIndex() error {
	data, err := os.ReadFile(p.indexPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", IndexFile, err)
	}

	if err := json.Unmarshal(data, &p.fields); err != nil {
		return fmt.Errorf("decoding %s: %w: %w", IndexFile, domain.ErrInvalidInput, err)
	}
	raw, ok := p.fields["data"]
	if !ok {
		return fmt.Errorf("%s has no data: %w", IndexFile, domain.ErrInvalidInput)
	}

	p.Document = domain.NewDocument()
	if err := json.Unmarshal(raw, p.Document); err != nil {
		return fmt.Errorf("decoding models: %w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// Binaries returns the attachment store of the project.
func (p *Project) Binaries() *filesystem.BinaryStore {
	return filesystem.NewBinaryStore(p.dataDir())
}

// ManuscriptIDs returns the IDs of the manuscripts in the project, sorted.
func (p *Project) ManuscriptIDs() []string {
	var ids []string
	for _, m := range domain.ModelsOf[*domain.Manuscript](p.Document) {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids
}

// ManuscriptID returns id if set, or the only manuscript of the project.
func (p *Project) ManuscriptID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	ids := p.ManuscriptIDs()
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("project has no manuscript: %w", domain.ErrInvalidInput)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("project has %d manuscripts, choose one of %s: %w",
			len(ids), strings.Join(ids, ", "), domain.ErrInvalidInput)
	}
}

// Index encodes the index file with the current document.
func (p *Project) Index() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(p.fields)+1)
	for k, v := range p.fields {
		fields[k] = v
	}
	data, err := json.Marshal(p.Document)
	if err != nil {
		return nil, fmt.Errorf("encoding models: %w", err)
	}
	fields["data"] = data
	return json.MarshalIndent(fields, "", "  ")
}

// Save writes the project to out. An empty out overwrites the project in
// place. The form of out follows its name: a .manuproj path is written as an
// archive, a .json or .manuscript-json path as a bare index, anything else as
// a directory.
func (p *Project) Save(out string) error {
	if out == "" {
		out = p.Path
	}
	index, err := p.Index()
	if err != nil {
		return err
	}

	format := outputFormat(out)
	if out == p.Path {
		format = p.Format
	}
	switch format {
	case FormatArchive:
		err = p.writeArchive(out, index)
	case FormatIndex:
		err = writeFileAtomic(out, index)
	default:
		err = p.writeDirectory(out, index)
	}
	if err != nil {
		return fmt.Errorf("saving project to %s: %w", out, err)
	}
	logger.Debug("saved project to %s", out)
	return nil
}

func outputFormat(out string) Format {
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return FormatDirectory
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case Extension:
		return FormatArchive
	case ".json", ".manuscript-json":
		return FormatIndex
	default:
		return FormatDirectory
	}
}

func (p *Project) dataDir() string {
	return filepath.Join(filepath.Dir(p.indexPath), DataDir)
}

func (p *Project) writeDirectory(out string, index []byte) error {
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(out, IndexFile), index); err != nil {
		return err
	}

	target := filepath.Join(out, DataDir)
	if sameDir(target, p.dataDir()) {
		return nil
	}
	return p.walkData(func(rel string, r io.Reader) error {
		path := filepath.Join(target, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

func (p *Project) writeArchive(out string, index []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".manuproj-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	w, err := zw.Create(IndexFile)
	if err == nil {
		_, err = w.Write(index)
	}
	if err == nil {
		err = p.walkData(func(rel string, r io.Reader) error {
			w, err := zw.Create(DataDir + "/" + filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			_, err = io.Copy(w, r)
			return err
		})
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), out)
}

// walkData calls fn for every attachment file, with its path relative to
// the Data directory.
func (p *Project) walkData(fn func(rel string, r io.Reader) error) error {
	dir := p.dataDir()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return fn(rel, f)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Close releases the temporary files of an archive project.
func (p *Project) Close() error {
	if p.tempDir == "" {
		return nil
	}
	dir := p.tempDir
	p.tempDir = ""
	return os.RemoveAll(dir)
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
