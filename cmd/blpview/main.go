// Command blpview is an interactive viewer for a BLP0/BLP1 file's
// mipmap pyramid, built the way Foereaper-GoMapViewer builds its map
// viewer: an ebiten Game loop, mouse-drag pan plus wheel zoom, and an
// error banner docked to the top edge when the file fails to open.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

func main() {
	flag.Parse()
	path := flag.Arg(0)
	if path == "" {
		log.Fatal("usage: blpview <file.blp>")
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("blpview: clipboard unavailable: %v", err)
	}

	g, bootErr := newGame(path)
	if bootErr != nil {
		log.Println("blpview:", bootErr)
	}

	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizable(true)
	ebiten.SetWindowTitle("blpview - " + path)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
