// Package main provides the entry point for the PDF Marker application.
package main

import (
	"log"
	"os"

	"fyne.io/fyne/v2/app"

	"pdf-marker/internal/session"
	"pdf-marker/internal/version"
	"pdf-marker/ui/mainwindow"
	"pdf-marker/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	fyneApp := app.New()

	state := session.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, appPrefs)
	win.ConfirmClose()

	// An optional session file argument restores a previous session.
	if len(os.Args) > 1 {
		sessionPath := os.Args[1]
		if err := state.LoadSession(sessionPath); err != nil {
			log.Printf("Failed to load session %s: %v", sessionPath, err)
		}
	}

	win.ShowAndRun()
}
