// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package goinspect

import (
	"fmt"
	"strings"

	"golang.org/x/tools/go/packages"
)

var cache = make(map[string]*packages.Package)

// Load loads the package matching pattern with full type information.
// Results are cached per pattern for the lifetime of the process.
func Load(pattern string) (*packages.Package, error) {
	if pkg, ok := cache[pattern]; ok {
		return pkg, nil
	}

	cfg := packages.Config{Mode: packages.LoadAllSyntax}
	pkgs, err := packages.Load(&cfg, pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("goinspect: no packages matched %q", pattern)
	}

	if err = newPackageError(pkgs[0]); err != nil {
		return nil, err
	}

	cache[pattern] = pkgs[0]
	return pkgs[0], nil
}

func newPackageError(pkg *packages.Package) error {
	if len(pkg.Errors) == 0 && (pkg.Module == nil || pkg.Module.Error == nil) {
		return nil
	}

	var err PackageError
	err.Errors = pkg.Errors
	if pkg.Module != nil && pkg.Module.Error != nil {
		err.ModuleError = pkg.Module.Error
	}
	return err
}

type PackageError struct {
	Errors      []packages.Error
	ModuleError *packages.ModuleError
}

// Based on [packages.PrintErrors]
func (err PackageError) Error() string {
	var sb strings.Builder

	for _, pkgErr := range err.Errors {
		sb.WriteString(pkgErr.Error())
		sb.WriteByte('\n')
	}
	if err.ModuleError != nil {
		sb.WriteString(err.ModuleError.Err)
		sb.WriteByte('\n')
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func (err PackageError) Unwrap() []error {
	pkgErrs := make([]error, 0, len(err.Errors))
	for _, pkgErr := range err.Errors {
		pkgErrs = append(pkgErrs, pkgErr)
	}
	return pkgErrs
}
