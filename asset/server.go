package asset

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/milk9111/helmet/ecs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type loadInfo struct {
	path      string
	state     LoadState
	err       error
	root      bool
	reloading bool
	pending   bool // a change arrived while reloading
	insert    inserter
}

type loadResult struct {
	id      HandleID
	path    string
	reload  bool
	err     error
	inserts []func(w *ecs.World)
	labeled []HandleID
	bytes   int64
	elapsed time.Duration
}

// Server loads assets from an fs.FS on background goroutines. Results are
// published to the world only by Update, so a handle reads as Loaded only
// once its asset is retrievable through Assets[T].
type Server struct {
	fsys    fs.FS
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	metrics *loadMetrics

	mu      sync.Mutex
	loaders map[string]Loader
	ids     map[string]HandleID
	infos   map[HandleID]*loadInfo
	done    []loadResult
	nextID  HandleID
	closed  bool
}

type Option func(*Server)

// WithMeterProvider overrides the global otel meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Server) {
		s.metrics = newLoadMetrics(mp)
	}
}

// WithLoaders registers loaders at construction.
func WithLoaders(loaders ...Loader) Option {
	return func(s *Server) {
		for _, l := range loaders {
			s.RegisterLoader(l)
		}
	}
}

func NewServer(fsys fs.FS, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		fsys:    fsys,
		ctx:     ctx,
		cancel:  cancel,
		loaders: make(map[string]Loader),
		ids:     make(map[string]HandleID),
		infos:   make(map[HandleID]*loadInfo),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = newLoadMetrics(otel.GetMeterProvider())
	}
	return s
}

// RegisterLoader makes l responsible for its extensions, replacing any
// loader registered for them before.
func (s *Server) RegisterLoader(l Loader) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ext := range l.Extensions() {
		s.loaders[normalizeExt(ext)] = l
	}
}

// Load starts loading p as an asset of type T. Loading the same path again
// returns the existing handle without starting a new load.
func Load[T any](s *Server, p string) Handle[T] {
	clean := cleanPath(p)
	s.mu.Lock()
	id, exists := s.ids[clean]
	if !exists {
		id = s.allocateLocked(clean)
		info := s.infos[id]
		info.root = true
		info.state = Loading
		info.insert = inserterFor[T](id)
	}
	s.mu.Unlock()

	if !exists {
		s.start(id, clean, false)
	}
	return Handle[T]{id: id, path: clean}
}

func (s *Server) allocateLocked(key string) HandleID {
	s.nextID++
	id := s.nextID
	s.ids[key] = id
	s.infos[id] = &loadInfo{path: key}
	return id
}

func (s *Server) labeledID(key string) HandleID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.ids[key]; ok {
		return id
	}
	id := s.allocateLocked(key)
	s.infos[id].state = Loading
	return id
}

func (s *Server) start(id HandleID, p string, reload bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	loader := s.loaders[extension(p)]
	insert := s.infos[id].insert
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		res := loadResult{id: id, path: p, reload: reload}
		begin := time.Now()
		if loader == nil {
			res.err = fmt.Errorf("%w for %q", ErrNoLoader, path.Ext(p))
		} else {
			lc := &LoadContext{ctx: s.ctx, fsys: s.fsys, path: p, server: s}
			res.err = s.run(loader, lc, insert, &res)
			res.bytes = lc.bytes
		}
		res.elapsed = time.Since(begin)

		s.mu.Lock()
		s.done = append(s.done, res)
		s.mu.Unlock()
	}()
}

func (s *Server) run(loader Loader, lc *LoadContext, insert inserter, res *loadResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("asset: loader panicked on %s: %v", lc.path, r)
		}
	}()
	v, err := loader.Load(lc)
	if err != nil {
		return fmt.Errorf("asset: load %s: %w", lc.path, err)
	}
	if err := lc.ctx.Err(); err != nil {
		return fmt.Errorf("asset: load %s: %w", lc.path, err)
	}
	put, err := insert(v)
	if err != nil {
		return fmt.Errorf("asset: load %s: %w", lc.path, err)
	}
	res.inserts = append(lc.inserts, put)
	res.labeled = lc.labeled
	return nil
}

// LoadState reports the progress of the asset or sub-asset id.
func (s *Server) LoadState(id HandleID) LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info, ok := s.infos[id]; ok {
		return info.state
	}
	return NotLoaded
}

// LoadError returns the error that failed id, if any.
func (s *Server) LoadError(id HandleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info, ok := s.infos[id]; ok {
		return info.err
	}
	return nil
}

// Reload re-runs the loader for a loaded root asset. The current asset stays
// in place until the reload succeeds. A reload requested while one is running
// is queued and starts once the running one has been published. It reports
// whether a reload started or was queued.
func (s *Server) Reload(p string) bool {
	clean := cleanPath(p)
	s.mu.Lock()
	id, ok := s.ids[clean]
	info := s.infos[id]
	if !ok || !info.root || info.state != Loaded {
		s.mu.Unlock()
		return false
	}
	if info.reloading {
		info.pending = true
		s.mu.Unlock()
		return true
	}
	info.reloading = true
	s.mu.Unlock()

	s.start(id, clean, true)
	return true
}

// ReloadDependents reloads every loaded root asset stored in the directory of
// changed, which covers the asset file itself and its buffers and images.
func (s *Server) ReloadDependents(changed string) int {
	dir := path.Dir(cleanPath(changed))
	s.mu.Lock()
	var targets []string
	for _, info := range s.infos {
		if info.root && info.state == Loaded && path.Dir(info.path) == dir {
			targets = append(targets, info.path)
		}
	}
	s.mu.Unlock()

	n := 0
	for _, p := range targets {
		if s.Reload(p) {
			n++
		}
	}
	return n
}

// Update moves finished loads into the world. It is an ecs.System and must run
// on the tick goroutine.
func (s *Server) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	for _, res := range done {
		s.metrics.record(res.path, res.reload, res.elapsed, res.err != nil)
		if res.err != nil {
			s.fail(w, res)
			continue
		}
		for _, put := range res.inserts {
			put(w)
		}

		s.mu.Lock()
		info := s.infos[res.id]
		info.state = Loaded
		info.err = nil
		info.reloading = false
		for _, id := range res.labeled {
			s.infos[id].state = Loaded
		}
		again := s.takePendingLocked(info)
		s.mu.Unlock()
		if again {
			s.start(res.id, res.path, true)
		}

		kind := EventAdded
		if res.reload {
			kind = EventModified
		}
		pushEvent(w, AssetEvent{Kind: kind, ID: res.id, Path: res.path})
		log.Debug().
			Str("path", res.path).
			Str("size", humanize.Bytes(uint64(res.bytes))).
			Dur("elapsed", res.elapsed).
			Bool("reload", res.reload).
			Msg("asset loaded")
	}
}

// takePendingLocked turns a queued reload into a running one.
func (s *Server) takePendingLocked(info *loadInfo) bool {
	if !info.pending || info.state != Loaded {
		info.pending = false
		return false
	}
	info.pending = false
	info.reloading = true
	return true
}

func (s *Server) fail(w *ecs.World, res loadResult) {
	s.mu.Lock()
	info := s.infos[res.id]
	info.reloading = false
	if !res.reload {
		info.state = Failed
		info.err = res.err
		prefix := res.path + "#"
		for key, id := range s.ids {
			if other := s.infos[id]; strings.HasPrefix(key, prefix) && other.state == Loading {
				other.state = Failed
				other.err = res.err
			}
		}
	}
	again := s.takePendingLocked(info)
	s.mu.Unlock()
	if again {
		s.start(res.id, res.path, true)
	}

	pushEvent(w, AssetEvent{Kind: EventFailed, ID: res.id, Path: res.path, Err: res.err})
	if res.reload {
		log.Warn().Err(res.err).Str("path", res.path).Msg("asset reload failed, keeping previous version")
		return
	}
	log.Error().Err(res.err).Str("path", res.path).Msg("asset load failed")
}

// Close cancels in-flight loads and waits for their goroutines.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}
