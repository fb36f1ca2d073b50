package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/minios-linux/aboutdesc/aboutxml"
)

// DefaultFileName is the metadata file name the driver looks for.
const DefaultFileName = "about.xml"

// DefaultDelay is the pause inserted between files to pace API requests.
const DefaultDelay = 500 * time.Millisecond

// Processor handles a single file. *Pipeline satisfies it.
type Processor interface {
	Process(ctx context.Context, path string) Result
}

// Summary tallies outcomes over a batch.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

func (s *Summary) add(r Result) {
	s.Total++
	switch r.Outcome {
	case Succeeded:
		s.Succeeded++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("total %d, succeeded %d, skipped %d, failed %d", s.Total, s.Succeeded, s.Skipped, s.Failed)
}

// Driver walks a directory tree and feeds every matching file to a Processor.
type Driver struct {
	proc Processor
	log  Logger

	// FileName is matched exactly against each file's base name.
	FileName string
	// Delay is the pause between two files. Zero disables it.
	Delay time.Duration
	// OnStart, if set, is called once with the number of files found.
	OnStart func(total int)
	// OnResult, if set, is called after each file.
	OnResult func(Result)
}

// NewDriver returns a Driver with the default file name and delay.
func NewDriver(proc Processor, log Logger) *Driver {
	return &Driver{
		proc:     proc,
		log:      log,
		FileName: DefaultFileName,
		Delay:    DefaultDelay,
	}
}

// Find returns every file under root whose base name is d.FileName, in
// directory walk order. Unreadable subdirectories are logged and skipped.
func (d *Driver) Find(root string) ([]string, error) {
	return d.find(root, d.fileName())
}

func (d *Driver) fileName() string {
	if d.FileName == "" {
		return DefaultFileName
	}
	return d.FileName
}

func (d *Driver) find(root, name string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading root %s: %w", root, err)
	}
	if !info.IsDir() {
		if filepath.Base(root) == name {
			return []string{root}, nil
		}
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			d.log.Warning("skipping %s: %v", path, err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() && entry.Name() == name {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// Run processes every matching file under root, one at a time, pausing
// d.Delay between files. The returned error is non-nil only when root
// cannot be walked or ctx is cancelled; the summary covers the files
// processed so far in either case.
func (d *Driver) Run(ctx context.Context, root string) (Summary, error) {
	var sum Summary

	files, err := d.Find(root)
	if err != nil {
		return sum, err
	}
	d.log.Info("Found %d %s file(s) under %s", len(files), d.fileName(), root)
	if d.OnStart != nil {
		d.OnStart(len(files))
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := d.proc.Process(ctx, path)
		sum.add(res)
		if d.OnResult != nil {
			d.OnResult(res)
		}

		if i < len(files)-1 && d.Delay > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(d.Delay):
			}
		}
	}

	return sum, nil
}

// ---------------------------------------------------------------------------
// Read-only inspection
// ---------------------------------------------------------------------------

// Status classifies a file without modifying it.
type Status int

const (
	StatusPending Status = iota
	StatusTranslated
	StatusNoDescription
	StatusUnreadable
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusTranslated:
		return "translated"
	case StatusNoDescription:
		return "no description"
	case StatusUnreadable:
		return "unreadable"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// FileStatus is one row of a Scan.
type FileStatus struct {
	Path        string
	Status      Status
	Description string
	HasBackup   bool
	Err         error
}

// Inspect reads path and reports its translation state against marker.
func Inspect(path, marker string) FileStatus {
	fst := FileStatus{Path: path}
	if _, err := os.Stat(BackupPath(path)); err == nil {
		fst.HasBackup = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fst.Status = StatusUnreadable
		fst.Err = err
		return fst
	}
	text := string(data)

	fst.Description = aboutxml.Extract(text)
	switch {
	case aboutxml.IsTranslated(text, marker):
		fst.Status = StatusTranslated
	case fst.Description == "":
		fst.Status = StatusNoDescription
	default:
		fst.Status = StatusPending
	}
	return fst
}

// Scan inspects every matching file under root.
func (d *Driver) Scan(root, marker string) ([]FileStatus, error) {
	files, err := d.Find(root)
	if err != nil {
		return nil, err
	}
	out := make([]FileStatus, 0, len(files))
	for _, f := range files {
		out = append(out, Inspect(f, marker))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Backups
// ---------------------------------------------------------------------------

// Backups returns the backup files under root that belong to matching files.
func (d *Driver) Backups(root string) ([]string, error) {
	return d.find(root, BackupPath(d.fileName()))
}

// Restore copies the backup of path back over path. If remove is true the
// backup is deleted afterwards.
func Restore(path string, remove bool) error {
	bak := BackupPath(path)
	data, err := os.ReadFile(bak)
	if err != nil {
		return fmt.Errorf("reading backup %s: %w", bak, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if remove {
		if err := os.Remove(bak); err != nil {
			return fmt.Errorf("removing backup %s: %w", bak, err)
		}
	}
	return nil
}
