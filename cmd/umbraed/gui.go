// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"

	"github.com/devblok/umbra/assets"
	"github.com/devblok/umbra/world"
	"github.com/gobuffalo/packr"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	log "github.com/sirupsen/logrus"
)

var staticResources = packr.NewBox("./resources")

// editor holds the widgets umbraed.glade defines.
type editor struct {
	window *gtk.Window
	label  *gtk.Label
	store  *gtk.ListStore
	reload *gtk.Button
}

func getObject(builder *gtk.Builder, name string) (glib.IObject, error) {
	obj, err := builder.GetObject(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return obj, nil
}

func newEditor(builder *gtk.Builder) (*editor, error) {
	var (
		e   editor
		ok  bool
		obj glib.IObject
		err error
	)
	if obj, err = getObject(builder, "mainWindow"); err != nil {
		return nil, err
	}
	if e.window, ok = obj.(*gtk.Window); !ok {
		return nil, errors.New("failed to cast mainWindow to Window")
	}
	if obj, err = getObject(builder, "worldLabel"); err != nil {
		return nil, err
	}
	if e.label, ok = obj.(*gtk.Label); !ok {
		return nil, errors.New("failed to cast worldLabel to Label")
	}
	if obj, err = getObject(builder, "objectStore"); err != nil {
		return nil, err
	}
	if e.store, ok = obj.(*gtk.ListStore); !ok {
		return nil, errors.New("failed to cast objectStore to ListStore")
	}
	if obj, err = getObject(builder, "reloadButton"); err != nil {
		return nil, err
	}
	if e.reload, ok = obj.(*gtk.Button); !ok {
		return nil, errors.New("failed to cast reloadButton to Button")
	}
	return &e, nil
}

// show loads the world and lists its contents. A world that fails to
// load is reported in the label and leaves the list empty.
func (e *editor) show(path, name string) {
	e.store.Clear()

	src, closer, err := assets.Open(path)
	if err != nil {
		e.label.SetText(err.Error())
		log.WithError(err).Error("open assets")
		return
	}
	defer closer.Close()

	b, err := world.Load(src, name)
	if err != nil {
		e.label.SetText(err.Error())
		log.WithError(err).Error("load world")
		return
	}

	e.label.SetText(title(b))
	columns := []int{columnKind, columnName, columnDetail}
	for _, r := range summarize(b) {
		if err := e.store.Set(e.store.Append(), columns, r.values()); err != nil {
			log.WithError(err).Warn("add row")
		}
	}
}

func buildInterface(path, name string) (*gtk.Application, error) {
	app, err := gtk.ApplicationNew("org.devblok.umbraed", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, err
	}

	app.Connect("startup", func() {
		log.Info("Application starting")
	})

	app.Connect("activate", func() {
		log.Info("Application activating")

		resource, err := staticResources.FindString("umbraed.glade")
		if err != nil {
			log.Fatal(err)
		}

		builder, err := gtk.BuilderNew()
		if err != nil {
			log.Fatal(err)
		}
		if err := builder.AddFromString(resource); err != nil {
			log.Fatal(err)
		}

		ed, err := newEditor(builder)
		if err != nil {
			log.Fatal(err)
		}
		ed.reload.Connect("clicked", func() {
			ed.show(path, name)
		})
		ed.show(path, name)

		ed.window.SetDefaultSize(600, 480)
		ed.window.ShowAll()
		app.AddWindow(ed.window)
	})

	app.Connect("shutdown", func() {
		log.Info("Application shutting down")
	})
	return app, nil
}
