//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

func Build() error {
	mg.Deps(BuildSimconvert)
	mg.Deps(BuildTreeexport)
	fmt.Println("Compilation finished")
	return nil
}

func BuildSimconvert() error {
	fmt.Println("Building simconvert executable...")
	return buildCgo("./bin/simconvert", "./simconvert")
}

func BuildTreeexport() error {
	fmt.Println("Building treeexport executable...")
	return buildCgo("./bin/treeexport", "./treeexport")
}

// The HDF5 bindings need cgo; the HDF5 install location is passed
// through CGO_CFLAGS/CGO_LDFLAGS.
func buildCgo(output string, path string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", "build", "-o", output, path)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("CGO_ENABLED=1"),
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
