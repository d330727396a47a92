package main

import "flag"

type cliFlags struct {
	configFile string
	urls       urlList
	once       bool
}

type urlList []string

func (u *urlList) String() string { return "" }

func (u *urlList) Set(value string) error {
	*u = append(*u, value)
	return nil
}

func parseFlags() cliFlags {
	var flags cliFlags

	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, looks for entradalert.yaml or config.yaml in the working directory.")
	configFileAlias := flag.String("c", "", "Alias for --config")
	flag.Var(&flags.urls, "url", "Target URL to monitor (repeatable, appended to configured targets)")
	once := flag.Bool("once", false, "Run a single check cycle and exit")
	flag.Parse()

	flags.configFile = *configFile
	if flags.configFile == "" && *configFileAlias != "" {
		flags.configFile = *configFileAlias
	}
	flags.once = *once
	return flags
}
