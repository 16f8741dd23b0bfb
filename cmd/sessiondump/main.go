// Command sessiondump inspects a saved session file and verifies that
// its annotations survive a decode and re-encode round trip.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"sort"

	"pdf-marker/internal/annot"
	"pdf-marker/internal/history"
	"pdf-marker/internal/session"
)

func main() {
	sessionPath := flag.String("session", "", "Path to a saved session file")
	verify := flag.Bool("verify", true, "Verify the annotation round trip")
	flag.Parse()

	if *sessionPath == "" {
		fmt.Println("Usage: sessiondump -session <path> [-verify=false]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read session: %v\n", err)
		os.Exit(1)
	}

	var file session.File
	if err := json.Unmarshal(data, &file); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode session: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session: %s\n", *sessionPath)
	fmt.Printf("Version: %d, saved %s\n", file.Version, file.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Remaining time: %ds, paused: %v, input mode: %q\n",
		file.RemainingTime, file.TimerPaused, file.InputMode)
	fmt.Printf("UI font scale: %.2f, law bookmarks: %d\n", file.UIFontScale, len(file.LawBookmarks))

	for i, answer := range file.Answers {
		total := 0
		used := 0
		for _, text := range answer.PageTexts {
			total += len([]rune(text))
			if text != "" {
				used++
			}
		}
		fmt.Printf("Answer %d: %d/%d pages used, %d characters\n",
			i+1, used, len(answer.PageTexts), total)
	}

	if file.PDF == nil {
		fmt.Println("No document attached")
		return
	}
	fmt.Printf("Document: %s\n", file.PDF.Path)

	snap := file.PDF.State
	if snap == nil {
		fmt.Println("No document state recorded")
		return
	}
	fmt.Printf("Viewer: page %d, zoom %.2f, spread %v, fit %s\n",
		snap.Viewer.CurrentPage+1, snap.Viewer.Zoom, snap.Viewer.SpreadMode, snap.Viewer.FitMode)

	pages := make([]int, 0, len(snap.Annotations))
	for page := range snap.Annotations {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	strokes, texts, shapes := 0, 0, 0
	for _, page := range pages {
		pa := snap.Annotations[page]
		fmt.Printf("Page %d: %d strokes, %d texts, %d shapes\n",
			page+1, len(pa.Strokes), len(pa.Texts), len(pa.Shapes))
		strokes += len(pa.Strokes)
		texts += len(pa.Texts)
		shapes += len(pa.Shapes)
	}
	fmt.Printf("Total: %d strokes, %d texts, %d shapes on %d pages\n",
		strokes, texts, shapes, len(pages))

	if !*verify {
		return
	}

	// Rebuild a store from the serialized annotations and capture it
	// again; the two wire forms must match.
	store := annot.NewStore()
	history.ApplyAnnotations(snap.Annotations, store)
	recaptured := history.CaptureAnnotations(store)

	if reflect.DeepEqual(normalize(snap.Annotations), normalize(recaptured)) {
		fmt.Println("Round trip: OK")
	} else {
		fmt.Println("Round trip: MISMATCH")
		os.Exit(1)
	}
}

// normalize rewrites serialized defaults the way decoding applies them,
// so a stored file using defaults compares equal to its re-encoding.
func normalize(annotations map[int]history.PageAnnotations) map[int]history.PageAnnotations {
	result := make(map[int]history.PageAnnotations, len(annotations))
	for page, pa := range annotations {
		strokes := make([]history.StrokeData, 0, len(pa.Strokes))
		for _, stroke := range pa.Strokes {
			if len(stroke.Path) == 0 {
				continue
			}
			if stroke.Color == 0 {
				stroke.Color = 0x000000ff
			}
			if stroke.Width < 1 {
				stroke.Width = 2
			}
			if stroke.Kind != int(annot.StrokeMarker) {
				stroke.Kind = int(annot.StrokePen)
			}
			path := make([]history.PathPointData, len(stroke.Path))
			copy(path, stroke.Path)
			path[0].Type = 0
			stroke.Path = path
			strokes = append(strokes, stroke)
		}
		if len(strokes) == 0 {
			strokes = nil
		}

		texts := make([]history.TextData, len(pa.Texts))
		copy(texts, pa.Texts)
		for i := range texts {
			if texts[i].Color == 0 {
				texts[i].Color = 0x000000ff
			}
		}
		if len(texts) == 0 {
			texts = nil
		}

		shapes := make([]history.ShapeData, len(pa.Shapes))
		copy(shapes, pa.Shapes)
		for i := range shapes {
			if shapes[i].Kind != int(annot.ShapeTriangle) && shapes[i].Kind != int(annot.ShapeCross) {
				shapes[i].Kind = int(annot.ShapeCircle)
			}
		}
		if len(shapes) == 0 {
			shapes = nil
		}

		if len(strokes) == 0 && len(texts) == 0 && len(shapes) == 0 {
			continue
		}
		result[page] = history.PageAnnotations{
			Strokes: strokes,
			Texts:   texts,
			Shapes:  shapes,
		}
	}
	return result
}
