package main

import "github.com/glothriel/peerhive/pkg/cmd"

func main() {
	cmd.Run()
}
