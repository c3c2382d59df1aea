// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command umbraed shows the contents of a world file.
package main

import (
	"flag"
	"os"

	"github.com/gotk3/gotk3/gtk"
	log "github.com/sirupsen/logrus"
)

var (
	assetPath = flag.String("assets", "assets", "Asset directory or kar archive")
	worldName = flag.String("world", "default.sw", "World file to show")
)

func main() {
	flag.Parse()
	gtk.Init(nil)

	app, err := buildInterface(*assetPath, *worldName)
	if err != nil {
		log.Fatal(err)
	}
	// Our flags are already parsed, GTK only gets the program name.
	os.Exit(app.Run(os.Args[:1]))
}
