// Package main は page-forge のコマンドライン版です。
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/urfave/cli/v2"

	"github.com/yourusername/page-forge/internal/config"
	"github.com/yourusername/page-forge/internal/jobs"
	"github.com/yourusername/page-forge/internal/logging"
	"github.com/yourusername/page-forge/internal/pdf"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:  "pageforge",
		Usage: "merge, delete, extract or split PDF pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "warn",
			},
			&cli.BoolFlag{
				Name:  "no-reveal",
				Usage: "do not open the output folder when done",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "print progress updates",
			},
		},
		Writer: stdout,
		Commands: []*cli.Command{
			operationCommand(pdf.OperationMerge, "combine two or more PDFs into one", stdout),
			operationCommand(pdf.OperationDelete, "remove the given pages (e.g. 1, 3-5, 6)", stdout),
			operationCommand(pdf.OperationExtract, "keep only the given pages (e.g. 1, 3-5, 6)", stdout),
			operationCommand(pdf.OperationSplit, "split before the given pages (e.g. 5, 9, 12)", stdout),
		},
	}
}

func operationCommand(op pdf.OperationType, usage string, stdout io.Writer) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "out",
			Aliases:  []string{"o"},
			Usage:    "output folder",
			Required: true,
		},
	}
	if op != pdf.OperationMerge {
		flags = append(flags, &cli.StringFlag{
			Name:     "pages",
			Aliases:  []string{"p"},
			Usage:    "comma separated page numbers or ranges",
			Required: true,
		})
	}
	return &cli.Command{
		Name:      string(op),
		Usage:     usage,
		ArgsUsage: "FILE.pdf...",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			return runOperation(c, op, stdout)
		},
	}
}

func runOperation(c *cli.Context, op pdf.OperationType, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(c.String("log-level"))

	req := pdf.Request{
		Operation: op,
		Inputs:    c.Args().Slice(),
		OutputDir: c.String("out"),
	}
	if len(req.Inputs) == 0 {
		return cli.Exit("Missing input PDFs.", 2)
	}
	if op != pdf.OperationMerge {
		req.Ranges = pdf.SplitRangeExpr(c.String("pages"))
		if len(req.Ranges) == 0 {
			return cli.Exit("Missing page ranges.", 2)
		}
	}

	lock := flock.New(cfg.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", cfg.LockPath, err)
	}
	if !locked {
		return cli.Exit("Another operation is still running.", 1)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.WithError(err).Warn("Failed to release lock")
		}
	}()

	var reveal pdf.Revealer = pdf.BrowserRevealer{}
	if c.Bool("no-reveal") || !cfg.RevealOutput {
		reveal = pdf.NoopRevealer{}
	}
	svc := pdf.NewService(pdf.NewPDFCPULibrary(cfg.PDFValidationMode), reveal, logger)

	queue := jobs.NewQueue()
	flag := &jobs.CancelFlag{}
	task := jobs.Start(svc, req, queue, flag)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	p := newPrinter(stdout, c.Bool("progress"))
	terminal := pollStatus(queue, task.Done(), cfg.PollInterval(), interrupt, func() {
		p.notice("Stopping... the operation will end at the next page.")
		task.Cancel()
	}, p.print)

	switch terminal.Kind {
	case pdf.KindFinished:
		return nil
	case pdf.KindCancelled:
		return cli.Exit("", 130)
	default:
		return cli.Exit("", 1)
	}
}
