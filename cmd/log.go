package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiesync/pkg/logger"
)

var (
	appLog  logger.Logger = logger.NewNopLogger()
	logSink io.Writer
	logOut  *os.File
)

// setupLogger builds the command logger: the console (stderr) plus, with
// --log-file, an appended log file.
func setupLogger(ctx *cli.Context) error {
	errW := ctx.App.ErrWriter
	if errW == nil {
		errW = os.Stderr
	}
	console := logger.NewConsoleLogger(errW, debug)
	logSink = errW
	appLog = console
	logOut = nil

	if logFile == "" {
		return nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logOut = f
	fileLog := logger.NewStandardLogger(log.New(f, "", log.LstdFlags), debug)
	appLog = logger.NewMultiLogger(console, fileLog)
	logSink = io.MultiWriter(errW, f)
	return nil
}

func closeLogger(*cli.Context) error {
	err := appLog.Close()
	if logOut != nil {
		if cerr := logOut.Close(); err == nil {
			err = cerr
		}
		logOut = nil
	}
	appLog = logger.NewNopLogger()
	return err
}

// debugWriter receives the FTP control-channel trace when --debug is set.
func debugWriter() io.Writer {
	if !debug {
		return nil
	}
	return logSink
}
