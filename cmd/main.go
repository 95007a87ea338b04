package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ostafen/extractinator/cmd/cmd"
	"github.com/ostafen/extractinator/internal/env"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	_, _ = maxprocs.Set()

	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	title := fmt.Sprintf(" EXTRACTINATOR %s ", env.Version)
	pad := strings.Repeat("=", 26)

	fmt.Println(pad + title + pad)
	fmt.Println()
	fmt.Println("Carve files out of binary blobs")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
