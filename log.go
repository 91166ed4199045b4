package wfdl

import (
	"log"
	"os"
)

// Prefix is prepended to every line wfdl itself prints.
const Prefix = "[wfdl] "

var (
	Info    = log.New(os.Stdout, Prefix, 0)
	Warning = log.New(os.Stderr, Prefix, 0)
)
