package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/yuanying/acbfview/internal/acbf"
	"github.com/yuanying/acbfview/internal/archive"
	"github.com/yuanying/acbfview/internal/importer"
	"github.com/yuanying/acbfview/internal/layout"
	"github.com/yuanying/acbfview/internal/render"
)

const pumpInterval = 50 * time.Millisecond

// Session owns the open book, its working directory and the reading state.
// At most one open, render or navigation runs at a time; a second one
// started meanwhile fails with ErrBusy.
type Session struct {
	opts      Options
	logger    *slog.Logger
	renderer  *render.Renderer
	extractor *archive.Extractor
	worker    *semaphore.Weighted

	mu         sync.Mutex
	closed     bool
	workDir    string
	path       string
	convention importer.Convention
	doc        *acbf.Document
	state      layout.RenderState
	current    *render.Result
}

// NewSession returns a session with no book open.
func NewSession(opts Options) *Session {
	opts.normalize()
	return &Session{
		opts:     opts,
		logger:   opts.Logger,
		renderer: render.NewRenderer(opts.Render),
		extractor: &archive.Extractor{
			Tool:     opts.Tool,
			Progress: opts.Progress,
			Logger:   opts.Logger,
		},
		worker: semaphore.NewWeighted(1),
		state:  newState(opts),
	}
}

func newState(opts Options) layout.RenderState {
	st := layout.NewState(opts.Viewport)
	st.Enhance = opts.Enhance.Clamp()
	return st
}

// Open extracts and loads the book at path, replacing the current one.
// Extraction and synthesis failures leave the current book open. A
// document that fails to parse opens as an empty placeholder.
func (s *Session) Open(ctx context.Context, path string) (*acbf.Document, error) {
	if !s.worker.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer s.worker.Release(1)
	if s.isClosed() {
		return nil, ErrClosed
	}

	work, err := os.MkdirTemp(s.opts.WorkRoot, "acbfview-")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	docPath, conv, err := s.prepare(ctx, path, work)
	if err != nil {
		s.removeWorkDir(work)
		return nil, err
	}
	doc := acbf.Open(docPath, s.logger)

	s.mu.Lock()
	s.saveHistoryLocked()
	old := s.workDir
	s.workDir = work
	s.path = path
	s.convention = conv
	s.doc = doc
	state := layout.NewState(s.state.Viewport)
	state.Enhance = s.state.Enhance
	s.state = state
	s.restoreLocked()
	s.current = nil
	s.mu.Unlock()

	if old != "" {
		s.removeWorkDir(old)
	}
	s.logger.Info("opened book",
		"path", path,
		"convention", conv,
		"pages", doc.PagesTotal(),
		"valid", doc.Valid,
	)
	return doc, nil
}

func (s *Session) prepare(ctx context.Context, path, work string) (string, importer.Convention, error) {
	if strings.EqualFold(filepath.Ext(path), acbf.Extension) {
		return path, importer.ConventionNative, nil
	}
	dir, err := s.extractor.Extract(ctx, path, work)
	if err != nil {
		return "", 0, err
	}
	return importer.Prepare(dir, path, s.logger)
}

// restoreLocked applies the remembered position of the open book.
func (s *Session) restoreLocked() {
	d, ok, err := s.opts.History.BookDetails(s.path)
	if err != nil {
		s.logger.Warn("failed to read reading history", "path", s.path, "error", err)
		return
	}
	if !ok {
		return
	}
	s.state.Restore(s.doc, d.Page, d.Frame, d.Zoom, d.Language, max(len(s.doc.Info.Languages), 1))
}

func (s *Session) saveHistoryLocked() {
	if s.doc == nil || s.path == "" {
		return
	}
	d := BookDetails{
		Page:     s.state.Page,
		Frame:    s.state.Frame,
		Zoom:     s.state.Zoom,
		Language: s.state.Language,
	}
	if err := s.opts.History.SetBookDetails(s.path, d); err != nil {
		s.logger.Warn("failed to save reading history", "path", s.path, "error", err)
	}
}

// Close remembers the reading position and wipes the working directory.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.saveHistoryLocked()
	work := s.workDir
	s.workDir = ""
	s.mu.Unlock()

	if work == "" {
		return nil
	}
	if err := os.RemoveAll(work); err != nil {
		return fmt.Errorf("failed to remove working directory: %w", err)
	}
	return nil
}

func (s *Session) removeWorkDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("failed to remove working directory", "path", dir, "error", err)
	}
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Document returns the open document, or nil.
func (s *Session) Document() *acbf.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Convention returns how the open book's document was obtained.
func (s *Session) Convention() importer.Convention {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convention
}

// State returns a copy of the reading state.
func (s *Session) State() layout.RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the last rendered page, or nil.
func (s *Session) Current() *render.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// WorkDir returns the working directory of the open book.
func (s *Session) WorkDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workDir
}

// Progress returns the reading progress of the open book in [0,1].
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0
	}
	return s.state.ReadingProgress(s.doc)
}

// Render renders the current page.
func (s *Session) Render(ctx context.Context) (*render.Result, error) {
	return s.navigate(ctx, func(*layout.RenderState, *acbf.Document) (layout.Move, error) {
		return layout.Move{Changed: true, Rerender: true}, nil
	})
}

// renderPage runs the renderer on a worker goroutine and joins it,
// pumping the caller's loop while it waits.
func (s *Session) renderPage(doc *acbf.Document, st layout.RenderState) (*render.Result, error) {
	type outcome struct {
		res *render.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.renderer.RenderPage(doc, st)
		done <- outcome{res: res, err: err}
	}()

	if s.opts.Pump == nil {
		o := <-done
		return o.res, o.err
	}
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()
	for {
		select {
		case o := <-done:
			return o.res, o.err
		case <-ticker.C:
			s.opts.Pump()
		}
	}
}
