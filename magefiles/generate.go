//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Generate runs the pipeline over scripts/keywords.json with the template
// article source and writes artifacts under output/.
func Generate() error {
	mg.Deps(Init)
	return sh.RunV("go", "run", cmdPkg, "generate")
}

// Validate checks scripts/keywords.json without writing anything.
func Validate() error {
	return sh.RunV("go", "run", cmdPkg, "topics", "validate")
}

// Report prints the latest recorded audit score per topic.
func Report() error {
	return sh.RunV("go", "run", cmdPkg, "report")
}

// Publish uploads output/ to the configured object store bucket.
func Publish() error {
	return sh.RunV("go", "run", cmdPkg, "publish")
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Clean removes build output and generated artifacts.
func Clean() error {
	for _, dir := range []string{binDir, "output"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
