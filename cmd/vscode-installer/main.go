package main

import "github.com/oshokin/vscode-installer/cmd/vscode-installer/cmd"

func main() {
	cmd.Execute()
}
