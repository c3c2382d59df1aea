// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package world

import (
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Watcher reports changes to the files of an asset directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	log     *log.Entry
}

// Watch starts watching dir. Changes are coalesced: while one is
// pending further ones are dropped.
func Watch(dir string, logger *log.Entry) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	w := &Watcher{
		watcher: watcher,
		changes: make(chan string, 1),
		done:    make(chan struct{}),
		log:     logger.WithField("dir", dir),
	}
	go w.run()
	return w, nil
}

// Changes delivers the name of a changed file.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.changes <- event.Name:
				w.log.WithField("file", event.Name).Debug("asset changed")
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("asset watcher error")
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
