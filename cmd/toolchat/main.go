package main

import (
	"os"

	"github.com/effective-security/xlog"
)

func main() {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(xlog.ERROR)
	Execute()
}
