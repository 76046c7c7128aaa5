package main

import "github.com/dossierkit/dossierkit/cmd"

func main() {
	cmd.Execute()
}
