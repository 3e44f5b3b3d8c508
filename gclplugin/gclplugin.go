/*
Package gclplugin runs the cyclefinder analyzer as a golangci-lint module
plugin.

Settings mirror the analyzer flags:

	whitelist   whitelist files, one rule per line
	rules       inline whitelist rules, same syntax as the files
	elements    "supplement" (default) or "replace": whether a container
	            field links to its own type as well as to its elements
	max-cycles  cap on cycles reported per strongly connected component

A minimal `.golangci.yaml` entry:

	linters:
	  enable:
	    - cyclefinder
	  settings:
	    custom:
	      cyclefinder:
	        type: module
	        settings:
	          whitelist: [cyclefinder.whitelist]
	          rules: ["example.com/app.Child: parent"]
*/
package gclplugin

import (
	"github.com/golangci/plugin-module-register/register"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/analysis"

	"go-cyclefinder/analyzer"
)

const linterName = "cyclefinder"

func init() { register.Plugin(linterName, New) }

// New decodes and validates the plugin settings.
func New(rawSettings any) (register.LinterPlugin, error) {
	settings, err := register.DecodeSettings[Settings](rawSettings)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s settings", linterName)
	}

	return Plugin{settings: settings}, nil
}

// Plugin builds one cyclefinder analyzer from its settings.
type Plugin struct {
	settings Settings
}

// GetLoadMode requests type information; cycles are found on go/types.
func (Plugin) GetLoadMode() string {
	return register.LoadModeTypesInfo
}

func (p Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{analyzer.New(p.settings.Options()...)}, nil
}
