// Package pipeline translates the description of a single about.xml file
// (Pipeline) and drives that over a directory tree (Driver).
//
// Processing is strictly sequential. Each file ends in exactly one Outcome;
// a failing file is logged and counted but never stops the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/minios-linux/aboutdesc/aboutxml"
)

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Translator turns source text into the configured target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Logger receives progress messages. *logging.Logger satisfies it.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// Failure classes. Every Failed result wraps exactly one of these.
var (
	ErrLocked      = errors.New("file is locked")
	ErrRead        = errors.New("read failed")
	ErrBackup      = errors.New("backup failed")
	ErrTranslation = errors.New("translation failed")
	ErrReplace     = errors.New("description replacement failed")
	ErrWrite       = errors.New("write failed")
	ErrPanic       = errors.New("unexpected panic")
	ErrCanceled    = errors.New("canceled")
)

// ---------------------------------------------------------------------------
// Outcome
// ---------------------------------------------------------------------------

// Outcome is the terminal state of one file.
type Outcome int

const (
	Succeeded Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Skip reasons.
const (
	ReasonAlreadyTranslated = "already translated"
	ReasonNoDescription     = "no description"
	ReasonDryRun            = "dry run"
)

// Result describes what happened to one file.
type Result struct {
	Path    string
	Outcome Outcome
	// Reason is a short human-readable explanation for Skipped and Failed.
	Reason string
	// Err is set for Failed results.
	Err error
	// Strategy records how the description was replaced on success.
	Strategy aboutxml.Strategy
}

func skipped(path, reason string) Result {
	return Result{Path: path, Outcome: Skipped, Reason: reason}
}

func failed(path string, class error, err error) Result {
	if err != nil {
		err = fmt.Errorf("%w: %v", class, err)
	} else {
		err = class
	}
	return Result{Path: path, Outcome: Failed, Reason: class.Error(), Err: err}
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

// Options controls per-file behavior.
type Options struct {
	// Marker is the configured marker text (see aboutxml.MarkerComment).
	Marker string
	// DryRun stops after extraction; nothing is translated or written.
	DryRun bool
}

// Pipeline processes one file at a time.
type Pipeline struct {
	translator Translator
	log        Logger
	opts       Options
}

// New returns a Pipeline using tr for translation and log for messages.
func New(tr Translator, log Logger, opts Options) *Pipeline {
	if opts.Marker == "" {
		opts.Marker = aboutxml.DefaultMarker
	}
	return &Pipeline{translator: tr, log: log, opts: opts}
}

// Process runs the full lock-check, backup, translate, replace, mark and
// write sequence on path. It never returns an error and never panics; the
// Result carries the outcome.
func (p *Pipeline) Process(ctx context.Context, path string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(path, ErrPanic, fmt.Errorf("%v", r))
			p.log.Error("%s: %v", path, res.Err)
		}
	}()

	res = p.process(ctx, path)
	switch res.Outcome {
	case Succeeded:
		p.log.Success("%s: translated (%s)", path, res.Strategy)
	case Skipped:
		p.log.Info("%s: skipped, %s", path, res.Reason)
	case Failed:
		p.log.Error("%s: %v", path, res.Err)
	}
	return res
}

func (p *Pipeline) process(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return failed(path, ErrCanceled, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return failed(path, ErrRead, err)
	}
	if err := checkUnlocked(path); err != nil {
		return failed(path, ErrLocked, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return failed(path, ErrRead, err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	if variant, ok := aboutxml.MatchMarker(text, p.opts.Marker); ok {
		p.log.Debug("%s: found marker %q", path, variant)
		return skipped(path, ReasonAlreadyTranslated)
	}

	if !p.opts.DryRun {
		if err := os.WriteFile(BackupPath(path), raw, 0644); err != nil {
			return failed(path, ErrBackup, err)
		}
	}

	extracted := aboutxml.ExtractResult(text)
	if extracted.Text == "" {
		return skipped(path, ReasonNoDescription)
	}
	p.log.Debug("%s: extracted %d bytes (%s)", path, len(extracted.Text), extracted.Strategy)

	if p.opts.DryRun {
		return skipped(path, ReasonDryRun)
	}

	translated, err := p.translator.Translate(ctx, extracted.Text)
	if err != nil {
		return failed(path, ErrTranslation, err)
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return failed(path, ErrTranslation, errors.New("empty translation"))
	}

	replaced, err := p.replace(path, text, translated)
	if err != nil {
		return failed(path, ErrReplace, err)
	}

	if got := aboutxml.Extract(replaced.Text); got != translated {
		p.log.Warning("%s: description reads back as %q after replacement", path, truncate(got, 60))
	}

	out := aboutxml.AddMarker(replaced.Text, p.opts.Marker)
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return failed(path, ErrWrite, err)
	}

	return Result{Path: path, Outcome: Succeeded, Strategy: replaced.Strategy}
}

// replace substitutes translated into text. A structured result that lost
// its description tags is discarded in favour of the regex fallback.
func (p *Pipeline) replace(path, text, translated string) (aboutxml.Result, error) {
	res, err := aboutxml.Replace(text, translated)
	if err != nil {
		return res, err
	}
	if res.Strategy == aboutxml.Structured && !aboutxml.HasDescriptionTag(res.Text) {
		p.log.Warning("%s: structured output lost <description>, using fallback", path)
		return aboutxml.ReplaceFallback(text, translated)
	}
	return res, nil
}

// BackupPath returns the sibling backup file name for path.
func BackupPath(path string) string {
	return path + ".bak"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
