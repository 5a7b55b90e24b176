// Command badgeforge creates 3D printed badges with matching PDF face sheets.
//
//	badgeforge names.csv                  # default badge shape
//	badgeforge names.csv badge.stl        # custom STL template
//	badgeforge names.csv -c my_config.json -p event_
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/badgeforge/badgeforge"
	"github.com/badgeforge/badgeforge/observability"
	"github.com/badgeforge/badgeforge/solid"
)

type options struct {
	csvPath string
	opts    badgeforge.Options
	verbose bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "badgeforge: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "badgeforge: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("badgeforge", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: badgeforge [flags] <csv_file> [stl_template]\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.opts.ConfigPath, "config", "", "JSON configuration file")
	fs.StringVar(&o.opts.ConfigPath, "c", "", "shorthand for -config")
	fs.StringVar(&o.opts.Prefix, "prefix", badgeforge.DefaultPrefix, "output file prefix")
	fs.StringVar(&o.opts.Prefix, "p", badgeforge.DefaultPrefix, "shorthand for -prefix")
	stops := fs.String("stops", string(solid.StopsL), "registration stop style: lstops or knobs")
	fs.BoolVar(&o.opts.KeepImages, "keep-images", false, "write rendered badge face PNGs beside the PDF")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	style, err := solid.ParseStopStyle(*stops)
	if err != nil {
		return options{}, err
	}
	o.opts.StopStyle = style

	rest := fs.Args()
	switch len(rest) {
	case 1:
		o.csvPath = rest[0]
	case 2:
		o.csvPath = rest[0]
		o.opts.TemplatePath = rest[1]
	default:
		fs.Usage()
		return options{}, errors.New("expected <csv_file> and optionally an STL template")
	}
	return o, nil
}

func run(o options) error {
	level := observability.LevelInfo
	if o.verbose {
		level = observability.LevelDebug
	}
	log := observability.NewTextLogger(os.Stderr, level)
	return badgeforge.New(o.opts, log).Run(o.csvPath)
}
