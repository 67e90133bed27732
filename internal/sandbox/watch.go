package sandbox

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must be quiet before it is reloaded; editors
// often write a file in several steps.
const settle = 100 * time.Millisecond

// Watcher reloads rule documents from a directory whenever they change.
// It only ever talks to the simulation through Submit.
type Watcher struct {
	watcher *fsnotify.Watcher
	sim     *Simulation
	// Reloaded receives the path of every document submitted for reload.
	Reloaded chan string
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// Watch starts watching dir for rule documents on behalf of sim.
func Watch(sim *Simulation, dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	watcher := &Watcher{
		watcher:  w,
		sim:      sim,
		Reloaded: make(chan string, 16),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	sim.log.Info("watching rules", "dir", dir)
	return watcher, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Reloaded)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 4)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !IsRuleFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sim.log.Error("rule watcher", "err", err)
		case now := <-ticker.C:
			for name, t := range pending {
				if now.Sub(t) < settle {
					continue
				}
				delete(pending, name)
				w.reload(name)
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload(name string) {
	data, err := os.ReadFile(name)
	if err != nil {
		w.sim.log.Error("reading rule document", "file", name, "err", err)
		return
	}
	if err := w.sim.Submit(Load(data, name)); err != nil {
		w.sim.log.Error("queueing rule reload", "file", name, "err", err)
		return
	}
	w.sim.log.Debug("rule document queued", "file", name)
	select {
	case w.Reloaded <- name:
	default:
	}
}
