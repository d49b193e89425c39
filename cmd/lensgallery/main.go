package main

import (
	"lensgallery/internal/ui"
)

func main() {
	ui.CreateApplication()
}
